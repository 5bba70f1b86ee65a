package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/repository"
)

// CatalogHandler exposes the thin CRUD surface for products, variants
// and pricing rules. These endpoints only feed the reservation and
// pricing core with data; they hold no business logic of their own.
type CatalogHandler struct {
	Products *repository.ProductRepo
	Variants *repository.VariantRepo
	Rules    *repository.PricingRuleRepo
}

func NewCatalogHandler(products *repository.ProductRepo, variants *repository.VariantRepo, rules *repository.PricingRuleRepo) *CatalogHandler {
	if products == nil || variants == nil || rules == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Products: products, Variants: variants, Rules: rules}
}

// CreateProduct handles POST /v1/products.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var body struct {
		Name       string  `json:"name"`
		BasePrice  float64 `json:"base_price"`
		CategoryID uint64  `json:"category_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" || body.BasePrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and non-negative base_price are required"})
	}
	p := model.Product{Name: body.Name, BasePrice: body.BasePrice, CategoryID: body.CategoryID}
	if err := h.Products.Create(c.Request().Context(), &p); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// ListProducts handles GET /v1/products.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products, err := h.Products.List(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": products})
}

// CreateVariant handles POST /v1/products/:id/variants.
func (h *CatalogHandler) CreateVariant(c echo.Context) error {
	productID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	if _, err := h.Products.ByID(c.Request().Context(), productID); err != nil {
		return domainError(c, err)
	}
	var body struct {
		SKU             string  `json:"sku"`
		PriceAdjustment float64 `json:"price_adjustment"`
		StockQuantity   int     `json:"stock_quantity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.StockQuantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stock_quantity must not be negative"})
	}
	v := model.Variant{
		ProductID:       productID,
		SKU:             body.SKU,
		PriceAdjustment: body.PriceAdjustment,
		StockQuantity:   body.StockQuantity,
	}
	if err := h.Variants.Create(c.Request().Context(), &v); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

// ListVariants handles GET /v1/products/:id/variants.
func (h *CatalogHandler) ListVariants(c echo.Context) error {
	productID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	variants, err := h.Variants.ListByProduct(c.Request().Context(), productID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": variants})
}

// CreateRule handles POST /v1/pricing-rules. Validity bounds, discount
// parts, matching fields and usage caps are all optional; the engine
// treats absent values as open/unlimited.
func (h *CatalogHandler) CreateRule(c echo.Context) error {
	var body struct {
		Type         string     `json:"type"`
		TargetType   string     `json:"target_type"`
		TargetID     *uint64    `json:"target_id"`
		Percentage   *float64   `json:"percentage"`
		FlatAmount   *float64   `json:"flat_amount"`
		MinQuantity  *int       `json:"min_quantity"`
		UserTier     *string    `json:"user_tier"`
		PromoCode    *string    `json:"promo_code"`
		StartAt      *time.Time `json:"start_at"`
		EndAt        *time.Time `json:"end_at"`
		UsageLimit   *int       `json:"usage_limit"`
		UsagePerUser *int       `json:"usage_per_user"`
		Active       bool       `json:"active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	switch body.Type {
	case model.RuleTypeSeasonal, model.RuleTypeBulk, model.RuleTypeUserTier, model.RuleTypePromo:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown rule type"})
	}
	switch body.TargetType {
	case model.TargetTypeProduct, model.TargetTypeVariant, model.TargetTypeCategory:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown target type"})
	}
	rule := model.PricingRule{
		Type:         body.Type,
		TargetType:   body.TargetType,
		TargetID:     body.TargetID,
		Percentage:   body.Percentage,
		FlatAmount:   body.FlatAmount,
		MinQuantity:  body.MinQuantity,
		UserTier:     body.UserTier,
		PromoCode:    body.PromoCode,
		StartAt:      body.StartAt,
		EndAt:        body.EndAt,
		UsageLimit:   body.UsageLimit,
		UsagePerUser: body.UsagePerUser,
		Active:       body.Active,
	}
	if err := h.Rules.Create(c.Request().Context(), &rule); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, rule)
}

// ListRules handles GET /v1/pricing-rules.
func (h *CatalogHandler) ListRules(c echo.Context) error {
	rules, err := h.Rules.List(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rules})
}
