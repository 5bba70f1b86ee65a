package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/repository"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/service"
)

// CartHandler exposes the reservation lifecycle over HTTP: creating a
// cart, adding an item (which reserves stock and freezes a price),
// resizing an item and removing it. All business rules live in the
// service layer; the handler only parses, authorizes and maps errors.
type CartHandler struct {
	Carts   *repository.CartRepo
	Service *service.CartService
}

func NewCartHandler(carts *repository.CartRepo, svc *service.CartService) *CartHandler {
	if carts == nil || svc == nil {
		panic("nil dependency passed to NewCartHandler")
	}
	return &CartHandler{Carts: carts, Service: svc}
}

// CreateCart handles POST /v1/carts and opens a cart for the
// authenticated user.
func (h *CartHandler) CreateCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	cart := model.Cart{UserID: userID, Status: model.CartStatusOpen}
	if err := h.Carts.CreateCart(c.Request().Context(), &cart); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, cart)
}

// AddItem handles POST /v1/carts/:id/items. It reserves stock for the
// requested variant and returns the price-frozen cart item, including
// the discount audit trail the quote produced.
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	cartID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart id"})
	}
	var body struct {
		VariantID uint64 `json:"variant_id"`
		Quantity  int    `json:"quantity"`
		PromoCode string `json:"promo_code"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.VariantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "variant_id is required"})
	}
	cart, err := h.Carts.CartByID(c.Request().Context(), cartID)
	if err != nil {
		return domainError(c, err)
	}
	if cart.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	item, err := h.Service.AddItem(c.Request().Context(), cartID, body.VariantID, body.Quantity, getTier(c), body.PromoCode)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem handles PATCH /v1/cart-items/:id. Only the quantity may
// change; the unit price stays frozen at its add-time snapshot.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart item id"})
	}
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	item, err := h.Service.UpdateItemQuantity(c.Request().Context(), itemID, body.Quantity)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// RemoveItem handles DELETE /v1/cart-items/:id, releasing the item's
// reservations back to availability.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart item id"})
	}
	if err := h.Service.RemoveItem(c.Request().Context(), itemID); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
