package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

// CartRepo provides data access to the carts and cart_items tables.
// The discount audit trail of an item is stored as a JSON column and
// round-tripped through model.AppliedDiscount so that checkout never
// parses it ad hoc.
type CartRepo struct {
	db *sql.DB
}

// NewCartRepo returns a CartRepo bound to the provided database.
func NewCartRepo(db *sql.DB) *CartRepo {
	return &CartRepo{db: db}
}

// CreateCart inserts an OPEN cart for a user and populates its ID.
func (r *CartRepo) CreateCart(ctx context.Context, c *model.Cart) error {
	if c.Status == "" {
		c.Status = model.CartStatusOpen
	}
	res, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO carts (user_id, status) VALUES (?, ?)`, c.UserID, c.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// CartByID fetches a cart by primary key.
func (r *CartRepo) CartByID(ctx context.Context, id uint64) (model.Cart, error) {
	var c model.Cart
	err := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, user_id, status, created_at FROM carts WHERE id = ?`, id).
		Scan(&c.ID, &c.UserID, &c.Status, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Cart{}, model.ErrCartNotFound
	}
	return c, err
}

// SetCartStatus updates the status of a cart.
func (r *CartRepo) SetCartStatus(ctx context.Context, id uint64, status string) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE carts SET status = ? WHERE id = ?`, status, id)
	return err
}

// CreateItem inserts a cart item with its frozen price snapshot and
// populates its ID.
func (r *CartRepo) CreateItem(ctx context.Context, item *model.CartItem) error {
	discounts, err := json.Marshal(item.Discounts)
	if err != nil {
		return err
	}
	res, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO cart_items (cart_id, variant_id, quantity, unit_price, discounts, subtotal, snapshot_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.CartID, item.VariantID, item.Quantity, item.UnitPrice,
		discounts, item.Subtotal, item.SnapshotAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = uint64(id)
	return nil
}

// ItemByID fetches a cart item by primary key, decoding its frozen
// discount trail.
func (r *CartRepo) ItemByID(ctx context.Context, id uint64) (model.CartItem, error) {
	var (
		item      model.CartItem
		discounts []byte
	)
	err := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, cart_id, variant_id, quantity, unit_price, discounts, subtotal, snapshot_at
		 FROM cart_items WHERE id = ?`, id).
		Scan(&item.ID, &item.CartID, &item.VariantID, &item.Quantity,
			&item.UnitPrice, &discounts, &item.Subtotal, &item.SnapshotAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CartItem{}, model.ErrCartItemNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	if len(discounts) > 0 {
		if err := json.Unmarshal(discounts, &item.Discounts); err != nil {
			return model.CartItem{}, err
		}
	}
	return item, nil
}

// UpdateItemQuantity persists a resize: only quantity and subtotal
// change, the frozen unit price and discount trail stay untouched.
func (r *CartRepo) UpdateItemQuantity(ctx context.Context, id uint64, quantity int, subtotal float64) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE cart_items SET quantity = ?, subtotal = ? WHERE id = ?`,
		quantity, subtotal, id)
	return err
}

// DeleteItem removes a cart item row.
func (r *CartRepo) DeleteItem(ctx context.Context, id uint64) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = ?`, id)
	return err
}

// ItemsByCart returns all items of a cart ordered by id.
func (r *CartRepo) ItemsByCart(ctx context.Context, cartID uint64) ([]model.CartItem, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx,
		`SELECT id, cart_id, variant_id, quantity, unit_price, discounts, subtotal, snapshot_at
		 FROM cart_items WHERE cart_id = ? ORDER BY id`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.CartItem
	for rows.Next() {
		var (
			item      model.CartItem
			discounts []byte
		)
		if err := rows.Scan(&item.ID, &item.CartID, &item.VariantID, &item.Quantity,
			&item.UnitPrice, &discounts, &item.Subtotal, &item.SnapshotAt); err != nil {
			return nil, err
		}
		if len(discounts) > 0 {
			if err := json.Unmarshal(discounts, &item.Discounts); err != nil {
				return nil, err
			}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
