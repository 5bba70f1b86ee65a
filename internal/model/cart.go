package model

import "time"

// Cart statuses. A cart starts OPEN and moves to CHECKED_OUT exactly
// once, when a checkout over its reservations succeeds.
const (
	CartStatusOpen       = "OPEN"
	CartStatusCheckedOut = "CHECKED_OUT"
)

// Cart groups the line items a user is assembling for purchase.
type Cart struct {
	ID        uint64    // carts.id
	UserID    uint64    // carts.user_id
	Status    string    // carts.status
	CreatedAt time.Time // carts.created_at
}

// AppliedDiscount is one entry of a cart item's frozen discount audit
// trail: which rule fired, its type and the amount it took off the
// running unit price. The trail is stored as JSON on the cart item and
// replayed at checkout to account rule usage.
type AppliedDiscount struct {
	RuleID         uint64  `json:"rule_id"`
	Type           string  `json:"type"`
	DiscountAmount float64 `json:"discount_amount"`
}

// CartItem is a price-frozen line item. UnitPrice and Discounts are
// written once, when the item is added, and never change afterwards;
// a later rule change does not affect an item already in a cart. Only
// Quantity and Subtotal may change via an explicit resize, and
// Subtotal is always re-derived from the frozen UnitPrice.
//
// Fields:
//  ID         - primary key identifier.
//  CartID     - owning cart.
//  VariantID  - variant being purchased.
//  Quantity   - units in the line.
//  UnitPrice  - per-unit price frozen at add time.
//  Discounts  - ordered audit trail of the rules applied at add time.
//  Subtotal   - UnitPrice * Quantity.
//  SnapshotAt - when the price snapshot was taken.
type CartItem struct {
	ID         uint64            // cart_items.id
	CartID     uint64            // cart_items.cart_id
	VariantID  uint64            // cart_items.variant_id
	Quantity   int               // cart_items.quantity
	UnitPrice  float64           // cart_items.unit_price
	Discounts  []AppliedDiscount // cart_items.discounts (JSON)
	Subtotal   float64           // cart_items.subtotal
	SnapshotAt time.Time         // cart_items.snapshot_at
}
