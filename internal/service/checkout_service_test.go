package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/clock"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

func newTestCheckoutService(s *memState) *CheckoutService {
	return NewCheckoutService(
		&memTx{state: s},
		&memVariants{s: s},
		&memReservations{s: s},
		&memCarts{s: s},
		&memUsage{s: s},
		&memOrders{s: s},
		clock.NewFixed(testNow),
	)
}

// seedCheckoutState builds a cart with two reserved line items, the
// first of which carries a frozen discount trail.
func seedCheckoutState() *memState {
	s := newMemState()
	s.carts[5] = model.Cart{ID: 5, UserID: 42, Status: model.CartStatusOpen}
	s.variants[2] = model.Variant{ID: 2, ProductID: 1, StockQuantity: 10, ReservedQuantity: 3}
	s.variants[3] = model.Variant{ID: 3, ProductID: 1, StockQuantity: 4, ReservedQuantity: 1}

	s.items[1] = model.CartItem{
		ID: 1, CartID: 5, VariantID: 2, Quantity: 3, UnitPrice: 90, Subtotal: 270,
		Discounts: []model.AppliedDiscount{{RuleID: 7, Type: model.RuleTypeSeasonal, DiscountAmount: 10}},
	}
	s.items[2] = model.CartItem{ID: 2, CartID: 5, VariantID: 3, Quantity: 1, UnitPrice: 50, Subtotal: 50}
	s.nextItemID = 2

	expiry := testNow.Add(10 * time.Minute)
	s.reservations[1] = model.Reservation{ID: 1, VariantID: 2, CartItemID: ptr(uint64(1)), Quantity: 3, ExpiresAt: expiry}
	s.reservations[2] = model.Reservation{ID: 2, VariantID: 3, CartItemID: ptr(uint64(2)), Quantity: 1, ExpiresAt: expiry}
	s.nextResID = 2
	return s
}

func TestCheckoutSettlesBatch(t *testing.T) {
	s := seedCheckoutState()
	svc := newTestCheckoutService(s)

	order, err := svc.Checkout(t.Context(), 5, []uint64{1, 2})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !almostEqual(order.Total, 320) {
		t.Errorf("Total = %v, want 320", order.Total)
	}
	if order.CartID != 5 || order.ID == 0 {
		t.Errorf("order = %+v, want cart 5 with assigned id", order)
	}

	// Stock and reserved both drop by the settled quantities.
	if v := s.variants[2]; v.StockQuantity != 7 || v.ReservedQuantity != 0 {
		t.Errorf("variant 2 = stock %d reserved %d, want 7 and 0", v.StockQuantity, v.ReservedQuantity)
	}
	if v := s.variants[3]; v.StockQuantity != 3 || v.ReservedQuantity != 0 {
		t.Errorf("variant 3 = stock %d reserved %d, want 3 and 0", v.StockQuantity, v.ReservedQuantity)
	}
	for id := uint64(1); id <= 2; id++ {
		if !s.reservations[id].Released {
			t.Errorf("reservation %d not released", id)
		}
	}
	if got := s.carts[5].Status; got != model.CartStatusCheckedOut {
		t.Errorf("cart status = %q, want %q", got, model.CartStatusCheckedOut)
	}
	// One usage consumption for the rule in the first item's trail,
	// regardless of the item's quantity.
	if n := s.usage[[2]uint64{7, 42}]; n != 1 {
		t.Errorf("rule 7 usage = %d, want 1", n)
	}
}

func TestCheckoutReleasedReservation(t *testing.T) {
	s := seedCheckoutState()
	res := s.reservations[2]
	res.Released = true
	s.reservations[2] = res
	svc := newTestCheckoutService(s)

	_, err := svc.Checkout(t.Context(), 5, []uint64{1, 2})
	if !errors.Is(err, model.ErrReservationReleased) {
		t.Fatalf("err = %v, want ErrReservationReleased", err)
	}
	assertCheckoutRolledBack(t, s)
}

func TestCheckoutCartMismatch(t *testing.T) {
	s := seedCheckoutState()
	s.carts[6] = model.Cart{ID: 6, UserID: 43, Status: model.CartStatusOpen}
	item := s.items[2]
	item.CartID = 6
	s.items[2] = item
	svc := newTestCheckoutService(s)

	_, err := svc.Checkout(t.Context(), 5, []uint64{1, 2})
	if !errors.Is(err, model.ErrCartMismatch) {
		t.Fatalf("err = %v, want ErrCartMismatch", err)
	}
	assertCheckoutRolledBack(t, s)
}

func TestCheckoutUnlinkedReservation(t *testing.T) {
	s := seedCheckoutState()
	res := s.reservations[2]
	res.CartItemID = nil
	s.reservations[2] = res
	svc := newTestCheckoutService(s)

	_, err := svc.Checkout(t.Context(), 5, []uint64{1, 2})
	if !errors.Is(err, model.ErrCartItemNotFound) {
		t.Fatalf("err = %v, want ErrCartItemNotFound", err)
	}
	assertCheckoutRolledBack(t, s)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	s := seedCheckoutState()
	// Stock vanished underneath the hold, as after a manual stock
	// correction.
	v := s.variants[3]
	v.StockQuantity = 0
	s.variants[3] = v
	svc := newTestCheckoutService(s)

	_, err := svc.Checkout(t.Context(), 5, []uint64{1, 2})
	if !errors.Is(err, model.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	// The first reservation settled before the failure; all of its
	// effects must be rolled back with the rest.
	if v := s.variants[2]; v.StockQuantity != 10 || v.ReservedQuantity != 3 {
		t.Errorf("variant 2 = stock %d reserved %d after rollback, want 10 and 3",
			v.StockQuantity, v.ReservedQuantity)
	}
	if s.reservations[1].Released {
		t.Error("reservation 1 released despite batch failure")
	}
	if got := s.carts[5].Status; got != model.CartStatusOpen {
		t.Errorf("cart status = %q after rollback, want OPEN", got)
	}
	if len(s.usage) != 0 {
		t.Errorf("usage = %v after rollback, want empty", s.usage)
	}
	if len(s.orders) != 0 {
		t.Errorf("orders = %d after rollback, want none", len(s.orders))
	}
}

func TestCheckoutUnknownReservation(t *testing.T) {
	s := seedCheckoutState()
	svc := newTestCheckoutService(s)

	_, err := svc.Checkout(t.Context(), 5, []uint64{1, 99})
	if !errors.Is(err, model.ErrReservationNotFound) {
		t.Fatalf("err = %v, want ErrReservationNotFound", err)
	}
	assertCheckoutRolledBack(t, s)
}

// assertCheckoutRolledBack verifies no trace of a failed batch
// survived: counters, reservations, cart status, usage and orders are
// all as seeded.
func assertCheckoutRolledBack(t *testing.T, s *memState) {
	t.Helper()
	if v := s.variants[2]; v.StockQuantity != 10 || v.ReservedQuantity != 3 {
		t.Errorf("variant 2 = stock %d reserved %d, want seeded 10 and 3",
			v.StockQuantity, v.ReservedQuantity)
	}
	if s.reservations[1].Released {
		t.Error("reservation 1 released despite failed checkout")
	}
	if got := s.carts[5].Status; got != model.CartStatusOpen {
		t.Errorf("cart status = %q, want OPEN", got)
	}
	if len(s.usage) != 0 {
		t.Errorf("usage advanced by failed checkout: %v", s.usage)
	}
	if len(s.orders) != 0 {
		t.Errorf("order created by failed checkout: %d", len(s.orders))
	}
}
