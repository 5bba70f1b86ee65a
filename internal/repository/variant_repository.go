package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

// VariantRepo provides data access to the variants table. It is the
// sole mutation point for the stock and reserved counters: every
// writer first takes the row lock via LockByID inside a transaction,
// so all counter mutations for one variant are strictly serialized.
type VariantRepo struct {
	db *sql.DB
}

// NewVariantRepo returns a VariantRepo bound to the provided database.
func NewVariantRepo(db *sql.DB) *VariantRepo {
	return &VariantRepo{db: db}
}

const variantColumns = `id, product_id, sku, price_adjustment, stock_quantity, reserved_quantity, created_at, updated_at`

func scanVariant(row *sql.Row) (model.Variant, error) {
	var v model.Variant
	err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &v.PriceAdjustment,
		&v.StockQuantity, &v.ReservedQuantity, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Variant{}, model.ErrVariantNotFound
	}
	return v, err
}

// LockByID reads a variant under an exclusive row lock. It must be
// called inside a TxRunner.WithTx closure; the lock is held until
// that transaction commits or rolls back, blocking concurrent lockers
// of the same variant.
func (r *VariantRepo) LockByID(ctx context.Context, id uint64) (model.Variant, error) {
	row := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+variantColumns+` FROM variants WHERE id = ? FOR UPDATE`, id)
	return scanVariant(row)
}

// ByID reads a variant without locking, for the pricing read path.
func (r *VariantRepo) ByID(ctx context.Context, id uint64) (model.Variant, error) {
	row := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+variantColumns+` FROM variants WHERE id = ?`, id)
	return scanVariant(row)
}

// SaveCounters persists the stock and reserved counters of a variant
// previously read with LockByID.
func (r *VariantRepo) SaveCounters(ctx context.Context, v model.Variant) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE variants SET stock_quantity = ?, reserved_quantity = ? WHERE id = ?`,
		v.StockQuantity, v.ReservedQuantity, v.ID)
	return err
}

// Create inserts a new variant and populates its ID.
func (r *VariantRepo) Create(ctx context.Context, v *model.Variant) error {
	res, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO variants (product_id, sku, price_adjustment, stock_quantity, reserved_quantity)
		 VALUES (?, ?, ?, ?, ?)`,
		v.ProductID, v.SKU, v.PriceAdjustment, v.StockQuantity, v.ReservedQuantity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// ListByProduct returns all variants of a product.
func (r *VariantRepo) ListByProduct(ctx context.Context, productID uint64) ([]model.Variant, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx,
		`SELECT `+variantColumns+` FROM variants WHERE product_id = ? ORDER BY id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Variant
	for rows.Next() {
		var v model.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.PriceAdjustment,
			&v.StockQuantity, &v.ReservedQuantity, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
