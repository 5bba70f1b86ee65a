package model

import "time"

// Order records a successful checkout: which cart was settled and the
// total charged, accumulated from the carts's frozen item snapshots.
type Order struct {
	ID        uint64    // orders.id
	CartID    uint64    // orders.cart_id
	Total     float64   // orders.total
	CreatedAt time.Time // orders.created_at
}
