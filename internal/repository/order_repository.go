package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

// OrderRepo provides data access to the orders table.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns an OrderRepo bound to the provided database.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create inserts an order and populates its ID.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	res, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO orders (cart_id, total) VALUES (?, ?)`, o.CartID, o.Total)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

// ByID fetches an order by primary key.
func (r *OrderRepo) ByID(ctx context.Context, id uint64) (model.Order, error) {
	var o model.Order
	err := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, cart_id, total, created_at FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.CartID, &o.Total, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, model.ErrOrderNotFound
	}
	return o, err
}
