package main // Entry point package

import (
	"context" // Cancellation for the background sweeper
	"log"     // Logging library
	"time"    // Durations for hold TTL and sweep period

	"github.com/joho/godotenv"    // Load .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/clock"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/config"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/database"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/handler"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/queue"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/repository"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/router"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/service"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/worker"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err) // Abort startup if the database is unreachable
	}
	defer func() { _ = db.Close() }()

	// Repositories share the one *sql.DB; writes run inside transactions
	// started by the TxRunner.
	txRunner := repository.NewTxRunner(db)
	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	variants := repository.NewVariantRepo(db)
	reservations := repository.NewReservationRepo(db)
	carts := repository.NewCartRepo(db)
	rules := repository.NewPricingRuleRepo(db)
	ruleUsage := repository.NewRuleUsageRepo(db)
	orders := repository.NewOrderRepo(db)

	clk := clock.NewSystem()

	pricing := service.NewPricingEngine(products, variants, rules, ruleUsage, clk)
	cartSvc := service.NewCartService(txRunner, variants, reservations, carts, pricing, clk,
		service.WithHoldTTL(time.Duration(cfg.HoldTTLMin)*time.Minute))
	checkoutSvc := service.NewCheckoutService(txRunner, variants, reservations, carts, ruleUsage, orders, clk)

	// Redis backs the cluster-wide sweep lease. Without it the sweeper still
	// runs, it just cannot coordinate with other instances.
	var lease worker.Lease
	if rdb := config.NewRedisClient(); rdb != nil {
		lease = worker.NewRedisLease(rdb)
	} else {
		log.Println("redis unavailable, expiry sweep running in single-instance mode")
	}
	sweeper := worker.NewExpirySweeper(txRunner, variants, reservations, lease, clk,
		time.Duration(cfg.SweepIntervalSec)*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx) // Reclaim stock from expired reservations in the background

	// Order events land on RabbitMQ; the consumer is best effort and keeps
	// retrying the broker connection on its own.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance

	authH := handler.NewAuthHandler(cfg, users)
	catalogH := handler.NewCatalogHandler(products, variants, rules)
	pricingH := handler.NewPricingHandler(pricing)
	cartH := handler.NewCartHandler(carts, cartSvc)
	checkoutH := handler.NewCheckoutHandler(carts, orders, checkoutSvc)

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, catalogH, pricingH, cfg.JWTSecret)
	router.RegisterCommerce(e, cartH, checkoutH, cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
