package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/handler"    // handlers implementing the endpoints
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/middleware" // JWT authentication middleware
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler. This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes. Unauthenticated operations
// live under /v1/auth, while the token-protected identity endpoint lives
// under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Routes under /v1/auth do not require an existing session.
	g := e.Group("/v1/auth")
	// Register a POST endpoint to handle user registration at /v1/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /v1/auth/login.
	g.POST("/login", a.Login)

	// /v1/me requires a valid access token and echoes the caller's identity.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers product, variant and pricing-rule endpoints.
// All of them require a valid access token; the price quote endpoint also
// reads the caller's tier out of the token to apply USER_TIER rules.
func RegisterCatalog(e *echo.Echo, cat *handler.CatalogHandler, pricing *handler.PricingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	// Product catalog.
	g.POST("/products", cat.CreateProduct)
	g.GET("/products", cat.ListProducts)
	// Variants hang off their product.
	g.POST("/products/:id/variants", cat.CreateVariant)
	g.GET("/products/:id/variants", cat.ListVariants)
	// Pricing rules.
	g.POST("/pricing-rules", cat.CreateRule)
	g.GET("/pricing-rules", cat.ListRules)
	// Read-only price quote. It does not touch stock or reservations.
	g.GET("/price-quote", pricing.Quote)
}

// RegisterCommerce registers the cart, checkout and order endpoints. Every
// route requires a valid access token, and the handlers additionally verify
// that the cart being mutated belongs to the caller.
func RegisterCommerce(e *echo.Echo, cart *handler.CartHandler, checkout *handler.CheckoutHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	// Cart lifecycle. Adding an item reserves stock and freezes the quoted
	// unit price on the line; updates and removals adjust or release those
	// reservations.
	g.POST("/carts", cart.CreateCart)
	g.POST("/carts/:id/items", cart.AddItem)
	g.PATCH("/cart-items/:id", cart.UpdateItem)
	g.DELETE("/cart-items/:id", cart.RemoveItem)

	// Checkout settles the listed reservations atomically and produces an
	// order. Orders are readable afterwards by id.
	g.POST("/carts/:id/checkout", checkout.Checkout)
	g.GET("/orders/:id", checkout.GetOrder)
}
