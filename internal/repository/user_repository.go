package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

// UserRepo provides data access to the users table for the auth
// endpoints.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the provided database.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a user and populates its ID. A duplicate email maps
// to model.ErrEmailTaken via the unique index on users.email.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO users (email, password_hash, tier) VALUES (?, ?, ?)`,
		u.Email, u.PasswordHash, u.Tier)
	if err != nil {
		if isDuplicateEntry(err) {
			return model.ErrEmailTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// ByEmail fetches a user by email.
func (r *UserRepo) ByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, email, password_hash, tier, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Tier, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	return u, err
}

// ByID fetches a user by primary key.
func (r *UserRepo) ByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, email, password_hash, tier, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Tier, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	return u, err
}
