// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair for the order stream.
package queue

// OrderLine is one settled cart line inside an OrderPlacedEvent,
// carrying the frozen snapshot price the line was charged at.
type OrderLine struct {
	VariantID uint64  `json:"variant_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// OrderPlacedEvent is published when a checkout succeeds. It contains
// enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type OrderPlacedEvent struct {
	EventID  string      `json:"event_id"`
	OrderID  uint64      `json:"order_id"`
	CartID   uint64      `json:"cart_id"`
	UserID   uint64      `json:"user_id"`
	Total    float64     `json:"total"`
	Lines    []OrderLine `json:"lines"`
	PlacedAt string      `json:"placed_at"`
}
