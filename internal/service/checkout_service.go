package service

import (
	"context"
	"log"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/clock"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

// CheckoutService converts a batch of reservations into a permanent
// stock decrement and an order. The batch is all-or-nothing: one bad
// reservation aborts the whole transaction and no stock, usage counter
// or cart state changes survive. Callers decide whether to retry with
// a trimmed id list.
type CheckoutService struct {
	tx           TxRunner
	variants     VariantStore
	reservations ReservationStore
	carts        CartStore
	usage        RuleUsageStore
	orders       OrderStore
	clock        clock.Clock
}

// NewCheckoutService constructs a CheckoutService over the given stores.
func NewCheckoutService(tx TxRunner, variants VariantStore, reservations ReservationStore, carts CartStore, usage RuleUsageStore, orders OrderStore, clk clock.Clock) *CheckoutService {
	return &CheckoutService{
		tx:           tx,
		variants:     variants,
		reservations: reservations,
		carts:        carts,
		usage:        usage,
		orders:       orders,
		clock:        clk,
	}
}

// Checkout settles the given reservations against their cart. For each
// reservation, in the given order, it verifies the hold is alive and
// belongs to the cart, locks the variant, permanently decrements both
// stock and reserved counters, releases the hold, accumulates the
// frozen line total and advances the usage counter of every rule in
// the item's frozen discount trail. When the whole batch succeeds the
// cart flips to CHECKED_OUT and an order is recorded.
//
// This is the only path that mutates StockQuantity; everything else
// only ever moves ReservedQuantity.
func (s *CheckoutService) Checkout(ctx context.Context, cartID uint64, reservationIDs []uint64) (model.Order, error) {
	var order model.Order
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		cart, err := s.carts.CartByID(ctx, cartID)
		if err != nil {
			return err
		}

		total := 0.0
		for _, resID := range reservationIDs {
			res, err := s.reservations.ByID(ctx, resID)
			if err != nil {
				return err
			}
			if res.Released {
				return model.ErrReservationReleased
			}
			if res.CartItemID == nil {
				return model.ErrCartItemNotFound
			}
			item, err := s.carts.ItemByID(ctx, *res.CartItemID)
			if err != nil {
				return err
			}
			if item.CartID != cartID {
				return model.ErrCartMismatch
			}
			variant, err := s.variants.LockByID(ctx, res.VariantID)
			if err != nil {
				return err
			}
			if variant.StockQuantity < res.Quantity {
				return model.ErrInsufficientStock
			}
			variant.StockQuantity -= res.Quantity
			variant.ReservedQuantity -= res.Quantity
			if err := s.variants.SaveCounters(ctx, variant); err != nil {
				return err
			}
			res.Released = true
			if err := s.reservations.Save(ctx, res); err != nil {
				return err
			}

			// Frozen snapshot, never re-quoted.
			total += item.UnitPrice * float64(item.Quantity)

			// One consumption per checked-out item per referenced
			// rule, regardless of the item's quantity.
			for _, d := range item.Discounts {
				if err := s.usage.Increment(ctx, d.RuleID, cart.UserID); err != nil {
					return err
				}
			}
		}

		if err := s.carts.SetCartStatus(ctx, cartID, model.CartStatusCheckedOut); err != nil {
			return err
		}
		order = model.Order{CartID: cartID, Total: total, CreatedAt: s.clock.Now()}
		return s.orders.Create(ctx, &order)
	})
	if err != nil {
		log.Printf("checkout: cart %d failed: %v", cartID, err)
		return model.Order{}, err
	}
	log.Printf("checkout: cart %d settled order=%d total=%.2f", cartID, order.ID, order.Total)
	return order, nil
}
