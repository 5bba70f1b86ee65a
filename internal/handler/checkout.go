package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/queue"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/repository"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/service"
)

// CheckoutHandler drives the all-or-nothing settlement of a cart's
// reservations and publishes the order event once the transaction has
// committed. A failed publish is logged inside the queue package and
// ignored here: the order exists either way.
type CheckoutHandler struct {
	Carts   *repository.CartRepo
	Orders  *repository.OrderRepo
	Service *service.CheckoutService
}

func NewCheckoutHandler(carts *repository.CartRepo, orders *repository.OrderRepo, svc *service.CheckoutService) *CheckoutHandler {
	if carts == nil || orders == nil || svc == nil {
		panic("nil dependency passed to NewCheckoutHandler")
	}
	return &CheckoutHandler{Carts: carts, Orders: orders, Service: svc}
}

// Checkout handles POST /v1/carts/:id/checkout. The body lists the
// reservation ids to settle; one bad reservation fails the whole
// batch and the caller decides whether to retry with a trimmed list.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	cartID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart id"})
	}
	var body struct {
		ReservationIDs []uint64 `json:"reservation_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.ReservationIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_ids is required"})
	}
	cart, err := h.Carts.CartByID(c.Request().Context(), cartID)
	if err != nil {
		return domainError(c, err)
	}
	if cart.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	order, err := h.Service.Checkout(c.Request().Context(), cartID, body.ReservationIDs)
	if err != nil {
		return domainError(c, err)
	}

	items, err := h.Carts.ItemsByCart(c.Request().Context(), cartID)
	if err == nil {
		lines := make([]queue.OrderLine, 0, len(items))
		for _, it := range items {
			lines = append(lines, queue.OrderLine{
				VariantID: it.VariantID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Subtotal:  it.Subtotal,
			})
		}
		_ = queue.PublishOrderPlaced(c.Request().Context(), queue.OrderPlacedEvent{
			OrderID:  order.ID,
			CartID:   cartID,
			UserID:   userID,
			Total:    order.Total,
			Lines:    lines,
			PlacedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"order_id": order.ID,
		"cart_id":  order.CartID,
		"total":    order.Total,
		"status":   model.CartStatusCheckedOut,
	})
}

// GetOrder handles GET /v1/orders/:id.
func (h *CheckoutHandler) GetOrder(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	order, err := h.Orders.ByID(c.Request().Context(), orderID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
