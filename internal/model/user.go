package model

import "time"

// User is an account that owns carts. Tier feeds USER_TIER pricing
// rules; only the bcrypt hash of the password is ever stored.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Tier         string    // users.tier (BRONZE, SILVER, GOLD)
	CreatedAt    time.Time // users.created_at
}
