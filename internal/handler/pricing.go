package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/service"
)

// PricingHandler exposes the read-only quote path of the rule engine.
type PricingHandler struct {
	Engine *service.PricingEngine
}

func NewPricingHandler(engine *service.PricingEngine) *PricingHandler {
	if engine == nil {
		panic("nil engine passed to NewPricingHandler")
	}
	return &PricingHandler{Engine: engine}
}

// Quote handles GET /v1/price-quote. Query parameters: product_id
// (required), variant_id, quantity (default 1), promo_code. The tier
// and user identity come from the access token. Quoting has no side
// effects; the same user can quote as often as they like without
// consuming any usage cap.
func (h *PricingHandler) Quote(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	productID, err := strconv.ParseUint(c.QueryParam("product_id"), 10, 64)
	if err != nil || productID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product_id"})
	}
	in := service.QuoteInput{
		ProductID: productID,
		Quantity:  1,
		UserTier:  getTier(c),
		PromoCode: c.QueryParam("promo_code"),
		UserID:    &userID,
	}
	if raw := c.QueryParam("variant_id"); raw != "" {
		variantID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || variantID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid variant_id"})
		}
		in.VariantID = &variantID
	}
	if raw := c.QueryParam("quantity"); raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil || qty <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quantity"})
		}
		in.Quantity = qty
	}

	result, err := h.Engine.Quote(c.Request().Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
