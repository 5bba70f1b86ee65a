package service

import (
	"context"
	"log"
	"time"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/clock"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

const defaultHoldTTL = 15 * time.Minute

// CartService owns the reservation lifecycle around cart items: adding
// an item reserves stock and freezes a price, resizing moves the hold,
// removing releases it. Every operation runs as one transaction with
// the variant row locked for its whole duration, so concurrent
// shoppers never observe stale availability.
type CartService struct {
	tx           TxRunner
	variants     VariantStore
	reservations ReservationStore
	carts        CartStore
	pricing      *PricingEngine
	clock        clock.Clock
	holdTTL      time.Duration
}

// NewCartService constructs a CartService. The hold TTL defaults to
// 15 minutes.
func NewCartService(tx TxRunner, variants VariantStore, reservations ReservationStore, carts CartStore, pricing *PricingEngine, clk clock.Clock, opts ...CartServiceOption) *CartService {
	s := &CartService{
		tx:           tx,
		variants:     variants,
		reservations: reservations,
		carts:        carts,
		pricing:      pricing,
		clock:        clk,
		holdTTL:      defaultHoldTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CartServiceOption customizes a CartService.
type CartServiceOption func(*CartService)

// WithHoldTTL overrides how long a reservation holds stock before it
// becomes sweepable.
func WithHoldTTL(d time.Duration) CartServiceOption {
	return func(s *CartService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

// AddItem reserves stock for a variant and adds a price-frozen line
// item to the cart. Inside one transaction it locks the variant,
// checks availability, raises the reserved counter, creates the
// 15-minute reservation, snapshots the price through the rule engine
// using the cart owner's identity, writes the cart item and links the
// reservation to it. Any failure rolls the whole sequence back.
func (s *CartService) AddItem(ctx context.Context, cartID, variantID uint64, quantity int, userTier, promoCode string) (model.CartItem, error) {
	if quantity <= 0 {
		return model.CartItem{}, model.ErrInvalidQuantity
	}
	var item model.CartItem
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		cart, err := s.carts.CartByID(ctx, cartID)
		if err != nil {
			return err
		}
		variant, err := s.variants.LockByID(ctx, variantID)
		if err != nil {
			return err
		}
		if variant.Available() < quantity {
			return model.ErrInsufficientStock
		}
		variant.ReservedQuantity += quantity
		if err := s.variants.SaveCounters(ctx, variant); err != nil {
			return err
		}

		now := s.clock.Now()
		res := model.Reservation{
			VariantID: variantID,
			Quantity:  quantity,
			ExpiresAt: now.Add(s.holdTTL),
		}
		if err := s.reservations.Create(ctx, &res); err != nil {
			return err
		}
		log.Printf("cart: reservation %d created variant=%d qty=%d expires_at=%s",
			res.ID, variantID, quantity, res.ExpiresAt.Format(time.RFC3339))

		quote, err := s.pricing.Quote(ctx, QuoteInput{
			ProductID: variant.ProductID,
			VariantID: &variantID,
			Quantity:  quantity,
			UserTier:  userTier,
			PromoCode: promoCode,
			UserID:    &cart.UserID,
		})
		if err != nil {
			return err
		}
		item = model.CartItem{
			CartID:     cartID,
			VariantID:  variantID,
			Quantity:   quantity,
			UnitPrice:  quote.FinalUnitPrice,
			Discounts:  quote.AppliedRules,
			Subtotal:   quote.TotalPrice,
			SnapshotAt: now,
		}
		if err := s.carts.CreateItem(ctx, &item); err != nil {
			return err
		}
		return s.reservations.LinkCartItem(ctx, res.ID, item.ID)
	})
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// UpdateItemQuantity resizes a cart item. The signed difference to the
// current quantity is applied to the variant's reserved counter under
// the row lock, then distributed across the item's reservation
// records: growth goes entirely into the first record, shrink drains
// successive records, releasing any that reach zero. Every touched
// reservation gets a fresh 15-minute expiry. The subtotal is re-derived
// from the frozen unit price; the price is never re-quoted.
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartItemID uint64, newQuantity int) (model.CartItem, error) {
	if newQuantity <= 0 {
		return model.CartItem{}, model.ErrInvalidQuantity
	}
	var item model.CartItem
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		item, err = s.carts.ItemByID(ctx, cartItemID)
		if err != nil {
			return err
		}
		diff := newQuantity - item.Quantity
		if diff != 0 {
			active, err := s.reservations.ActiveByCartItem(ctx, cartItemID)
			if err != nil {
				return err
			}
			if len(active) == 0 {
				return model.ErrNoActiveReservations
			}
			variant, err := s.variants.LockByID(ctx, item.VariantID)
			if err != nil {
				return err
			}
			if diff > 0 && variant.Available() < diff {
				return model.ErrInsufficientStock
			}
			// A negative diff only shrinks holds this item already
			// owns, so the counter cannot go below zero.
			variant.ReservedQuantity += diff
			if err := s.variants.SaveCounters(ctx, variant); err != nil {
				return err
			}

			now := s.clock.Now()
			remaining := diff
			for i := range active {
				if remaining == 0 {
					break
				}
				res := active[i]
				if remaining > 0 {
					res.Quantity += remaining
					remaining = 0
				} else {
					dec := min(-remaining, res.Quantity)
					res.Quantity -= dec
					remaining += dec
					if res.Quantity == 0 {
						res.Released = true
					}
				}
				res.ExpiresAt = now.Add(s.holdTTL)
				if err := s.reservations.Save(ctx, res); err != nil {
					return err
				}
			}
		}
		item.Quantity = newQuantity
		item.Subtotal = item.UnitPrice * float64(newQuantity)
		return s.carts.UpdateItemQuantity(ctx, item.ID, item.Quantity, item.Subtotal)
	})
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// RemoveItem releases every active reservation behind a cart item,
// returns their summed quantity to the variant's availability and
// deletes the item. An item with no active reservations still deletes
// cleanly; the ledger side is a no-op then.
func (s *CartService) RemoveItem(ctx context.Context, cartItemID uint64) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		item, err := s.carts.ItemByID(ctx, cartItemID)
		if err != nil {
			return err
		}
		active, err := s.reservations.ActiveByCartItem(ctx, cartItemID)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			variant, err := s.variants.LockByID(ctx, item.VariantID)
			if err != nil {
				return err
			}
			released := 0
			for i := range active {
				res := active[i]
				released += res.Quantity
				res.Released = true
				if err := s.reservations.Save(ctx, res); err != nil {
					return err
				}
				log.Printf("cart: reservation %d released variant=%d qty=%d",
					res.ID, res.VariantID, res.Quantity)
			}
			variant.ReservedQuantity -= released
			if err := s.variants.SaveCounters(ctx, variant); err != nil {
				return err
			}
		}
		return s.carts.DeleteItem(ctx, item.ID)
	})
}
