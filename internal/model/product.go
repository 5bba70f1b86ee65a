package model

import "time"

// Product is a catalog entry that variants hang off. The pricing
// engine only needs BasePrice and CategoryID from it; everything
// else is plain catalog data administered over the CRUD endpoints.
//
// Fields:
//  ID         - primary key identifier.
//  Name       - display name of the product.
//  BasePrice  - price before variant adjustment and discounts.
//  CategoryID - category used by CATEGORY-targeted pricing rules.
//  CreatedAt  - creation timestamp.
type Product struct {
	ID         uint64    // products.id
	Name       string    // products.name
	BasePrice  float64   // products.base_price
	CategoryID uint64    // products.category_id
	CreatedAt  time.Time // products.created_at
}
