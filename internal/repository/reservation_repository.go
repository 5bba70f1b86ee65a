package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

// ReservationRepo provides data access to the reservations table.
// Reservations are never deleted; the released flag is their
// end-of-life marker. All timestamps are UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the provided database.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

const reservationColumns = `id, variant_id, cart_item_id, quantity, expires_at, released, created_at`

// Create inserts a new reservation and populates its ID.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	out, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO reservations (variant_id, cart_item_id, quantity, expires_at, released)
		 VALUES (?, ?, ?, ?, ?)`,
		res.VariantID, res.CartItemID, res.Quantity, res.ExpiresAt.UTC(), res.Released)
	if err != nil {
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// ByID fetches a reservation by primary key.
func (r *ReservationRepo) ByID(ctx context.Context, id uint64) (model.Reservation, error) {
	var res model.Reservation
	err := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id).
		Scan(&res.ID, &res.VariantID, &res.CartItemID, &res.Quantity,
			&res.ExpiresAt, &res.Released, &res.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, model.ErrReservationNotFound
	}
	return res, err
}

// Save persists the mutable fields of a reservation: quantity, expiry
// and the released flag.
func (r *ReservationRepo) Save(ctx context.Context, res model.Reservation) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE reservations SET quantity = ?, expires_at = ?, released = ? WHERE id = ?`,
		res.Quantity, res.ExpiresAt.UTC(), res.Released, res.ID)
	return err
}

// LinkCartItem points a reservation at the cart item it backs.
func (r *ReservationRepo) LinkCartItem(ctx context.Context, reservationID, cartItemID uint64) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE reservations SET cart_item_id = ? WHERE id = ?`, cartItemID, reservationID)
	return err
}

// ActiveByCartItem returns the non-released reservations linked to a
// cart item, oldest first. Resize distributes its quantity diff over
// this ordering.
func (r *ReservationRepo) ActiveByCartItem(ctx context.Context, cartItemID uint64) ([]model.Reservation, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE cart_item_id = ? AND released = FALSE ORDER BY id`, cartItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ExpiredUnreleased returns every reservation whose expiry has passed
// and whose released flag is still false. The sweeper releases them.
func (r *ReservationRepo) ExpiredUnreleased(ctx context.Context, now time.Time) ([]model.Reservation, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE expires_at < ? AND released = FALSE ORDER BY id`, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	var out []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.VariantID, &res.CartItemID, &res.Quantity,
			&res.ExpiresAt, &res.Released, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
