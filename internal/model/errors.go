// Package model defines the domain entities shared by the service,
// repository and transport layers, together with the sentinel errors
// of the core operations. Handlers compare against these values with
// errors.Is to pick HTTP statuses; the service layer returns them so
// every failure aborts its enclosing transaction with state unchanged.
package model

import "errors"

var (
	// Not-found family: an id passed into an operation is unknown.
	ErrProductNotFound     = errors.New("product not found")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrCartNotFound        = errors.New("cart not found")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrRuleNotFound        = errors.New("pricing rule not found")
	ErrUserNotFound        = errors.New("user not found")

	// ErrInvalidQuantity rejects non-positive quantities before any
	// counter is touched.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrUserIDRequired is returned when a rule with a per-user usage
	// cap is evaluated without a user identity.
	ErrUserIDRequired = errors.New("user id is required for rules with a per-user usage cap")

	// ErrInsufficientStock means the requested quantity exceeded the
	// available (or, at checkout, physical) stock at lock time.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrReservationReleased rejects operating on a reservation whose
	// terminal released flag is already set.
	ErrReservationReleased = errors.New("reservation already released")

	// ErrCartMismatch rejects settling a reservation whose cart item
	// belongs to a different cart than the one being checked out.
	ErrCartMismatch = errors.New("reservation does not belong to cart")

	// ErrNoActiveReservations rejects resizing a cart item that has no
	// unreleased reservations backing it.
	ErrNoActiveReservations = errors.New("no active reservations for cart item")

	// ErrEmailTaken is returned when registering an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")
)
