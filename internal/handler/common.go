package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel comparisons for status mapping
	"net/http"
	"strconv" // strconv converts strings to numeric types
	"strings" // strings provides trimming and case helpers

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case float64: // JWT numbers decode as float64
		if t > 0 {
			return uint64(t), nil
		}
	case string:
		if n, err := strconv.ParseUint(strings.TrimSpace(t), 10, 64); err == nil && n > 0 {
			return n, nil
		}
	}
	return 0, errors.New("user_id missing from context")
}

// getTier extracts the pricing tier claim, defaulting to BRONZE when
// the token carries none.
func getTier(c echo.Context) string {
	if v, ok := c.Get("tier").(string); ok && v != "" {
		return strings.ToUpper(v)
	}
	return model.TierBronze
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// domainError maps a sentinel error of the core onto an HTTP response.
// Unknown errors become a generic 500 so internals never leak to
// clients.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrVariantNotFound),
		errors.Is(err, model.ErrCartNotFound),
		errors.Is(err, model.ErrCartItemNotFound),
		errors.Is(err, model.ErrReservationNotFound),
		errors.Is(err, model.ErrOrderNotFound),
		errors.Is(err, model.ErrRuleNotFound),
		errors.Is(err, model.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, model.ErrUserIDRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrInsufficientStock),
		errors.Is(err, model.ErrReservationReleased),
		errors.Is(err, model.ErrCartMismatch),
		errors.Is(err, model.ErrNoActiveReservations),
		errors.Is(err, model.ErrEmailTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
