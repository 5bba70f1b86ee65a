package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

// ProductRepo provides data access to the products table. The pricing
// engine uses it as its catalog lookup (base price and category).
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo returns a ProductRepo bound to the provided database.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// ByID fetches a product by primary key.
func (r *ProductRepo) ByID(ctx context.Context, id uint64) (model.Product, error) {
	var p model.Product
	err := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, name, base_price, category_id, created_at FROM products WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.BasePrice, &p.CategoryID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, model.ErrProductNotFound
	}
	return p, err
}

// Create inserts a new product and populates its ID.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO products (name, base_price, category_id) VALUES (?, ?, ?)`,
		p.Name, p.BasePrice, p.CategoryID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// List returns all products ordered by id.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx,
		`SELECT id, name, base_price, category_id, created_at FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.BasePrice, &p.CategoryID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
