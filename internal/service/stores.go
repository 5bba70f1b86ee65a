// Package service implements the reservation and pricing core:
// snapshot-priced cart operations, the rule engine and atomic
// checkout. It is storage- and transport-agnostic; the interfaces
// below name exactly what each operation consumes, and the MySQL
// repositories satisfy them. Tests substitute in-memory fakes.
package service

import (
	"context"
	"time"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

// TxRunner runs a closure inside one transaction. Every store call
// made from the closure sees and mutates the same transaction, and an
// error return rolls the whole transaction back, so multi-step
// operations are all-or-nothing.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// VariantStore is the variant ledger: LockByID takes the exclusive
// row lock that serializes all counter mutations for one variant, and
// SaveCounters persists the counters while the lock is held. Both
// must be called inside a TxRunner closure.
type VariantStore interface {
	LockByID(ctx context.Context, id uint64) (model.Variant, error)
	ByID(ctx context.Context, id uint64) (model.Variant, error)
	SaveCounters(ctx context.Context, v model.Variant) error
}

// CatalogStore resolves products for the pricing read path.
type CatalogStore interface {
	ByID(ctx context.Context, id uint64) (model.Product, error)
}

// ReservationStore persists time-bounded holds.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	ByID(ctx context.Context, id uint64) (model.Reservation, error)
	Save(ctx context.Context, res model.Reservation) error
	LinkCartItem(ctx context.Context, reservationID, cartItemID uint64) error
	ActiveByCartItem(ctx context.Context, cartItemID uint64) ([]model.Reservation, error)
}

// CartStore persists carts and their price-frozen items.
type CartStore interface {
	CartByID(ctx context.Context, id uint64) (model.Cart, error)
	SetCartStatus(ctx context.Context, id uint64, status string) error
	CreateItem(ctx context.Context, item *model.CartItem) error
	ItemByID(ctx context.Context, id uint64) (model.CartItem, error)
	UpdateItemQuantity(ctx context.Context, id uint64, quantity int, subtotal float64) error
	DeleteItem(ctx context.Context, id uint64) error
}

// RuleStore yields the rules eligible at a point in time.
type RuleStore interface {
	ActiveValidRules(ctx context.Context, now time.Time) ([]model.PricingRule, error)
}

// RuleUsageStore reads and advances the per-(rule, user) usage
// counters backing global and per-user caps.
type RuleUsageStore interface {
	SumByRule(ctx context.Context, ruleID uint64) (int64, error)
	SumByRuleAndUser(ctx context.Context, ruleID, userID uint64) (int64, error)
	Increment(ctx context.Context, ruleID, userID uint64) error
}

// OrderStore records settled checkouts.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
}
