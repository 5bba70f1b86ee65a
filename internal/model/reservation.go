package model

import "time"

// Reservation is a time-bounded hold of variant stock. It is created
// when an item is added to a cart and counted against the variant's
// ReservedQuantity until it is released. Released is terminal: it
// flips from false to true exactly once (by checkout, by an explicit
// release, by a resize draining it to zero, or by the expiry sweep)
// and is never reversed. Reservation rows are never deleted.
//
// Fields:
//  ID         - primary key identifier.
//  VariantID  - variant whose stock is held.
//  CartItemID - cart item this hold is linked to (nil until linked).
//  Quantity   - units held.
//  ExpiresAt  - when the hold lapses and becomes sweepable.
//  Released   - terminal end-of-life marker.
//  CreatedAt  - creation timestamp.
type Reservation struct {
	ID         uint64    // reservations.id
	VariantID  uint64    // reservations.variant_id
	CartItemID *uint64   // reservations.cart_item_id (nullable)
	Quantity   int       // reservations.quantity
	ExpiresAt  time.Time // reservations.expires_at
	Released   bool      // reservations.released
	CreatedAt  time.Time // reservations.created_at
}
