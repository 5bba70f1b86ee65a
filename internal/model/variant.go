package model

import "time"

// Variant is a sellable configuration of a product with its own stock
// counters. StockQuantity is the number of physical units owned and
// ReservedQuantity the units held by unexpired, unreleased
// reservations, so availability is always StockQuantity minus
// ReservedQuantity. Both counters are only ever mutated while the
// variant row is locked with SELECT ... FOR UPDATE; the invariant
// 0 <= ReservedQuantity <= StockQuantity holds at every commit.
//
// Fields:
//  ID               - primary key identifier.
//  ProductID        - product this variant belongs to.
//  SKU              - stock keeping unit code.
//  PriceAdjustment  - delta applied on top of the product base price.
//  StockQuantity    - physical units owned.
//  ReservedQuantity - units held by active reservations.
//  CreatedAt        - creation timestamp.
//  UpdatedAt        - last update timestamp.
type Variant struct {
	ID               uint64    // variants.id
	ProductID        uint64    // variants.product_id
	SKU              string    // variants.sku
	PriceAdjustment  float64   // variants.price_adjustment
	StockQuantity    int       // variants.stock_quantity
	ReservedQuantity int       // variants.reserved_quantity
	CreatedAt        time.Time // variants.created_at
	UpdatedAt        time.Time // variants.updated_at
}

// Available returns the units of stock not currently held by a
// reservation.
func (v Variant) Available() int {
	return v.StockQuantity - v.ReservedQuantity
}
