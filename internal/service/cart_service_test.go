package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/clock"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

func newTestCartService(s *memState, opts ...CartServiceOption) *CartService {
	return NewCartService(
		&memTx{state: s},
		&memVariants{s: s},
		&memReservations{s: s},
		&memCarts{s: s},
		newTestEngine(s),
		clock.NewFixed(testNow),
		opts...,
	)
}

func seedCartState() *memState {
	s := newMemState()
	s.products[1] = model.Product{ID: 1, Name: "widget", BasePrice: 100, CategoryID: 7}
	s.variants[2] = model.Variant{ID: 2, ProductID: 1, SKU: "W-BLUE", StockQuantity: 10}
	s.carts[5] = model.Cart{ID: 5, UserID: 42, Status: model.CartStatusOpen}
	return s
}

func TestAddItemReservesAndFreezesPrice(t *testing.T) {
	s := seedCartState()
	s.rules = []model.PricingRule{{
		ID: 1, Type: model.RuleTypeSeasonal, TargetType: model.TargetTypeProduct,
		TargetID: ptr(uint64(1)), Percentage: ptr(10.0), Active: true,
	}}
	svc := newTestCartService(s)

	item, err := svc.AddItem(t.Context(), 5, 2, 3, model.TierBronze, "")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if got := s.variants[2].ReservedQuantity; got != 3 {
		t.Errorf("ReservedQuantity = %d, want 3", got)
	}
	if !almostEqual(item.UnitPrice, 90) || !almostEqual(item.Subtotal, 270) {
		t.Errorf("unit %v subtotal %v, want 90 and 270", item.UnitPrice, item.Subtotal)
	}
	if len(item.Discounts) != 1 || item.Discounts[0].RuleID != 1 {
		t.Errorf("Discounts = %+v, want the seasonal rule", item.Discounts)
	}

	active, _ := (&memReservations{s: s}).ActiveByCartItem(t.Context(), item.ID)
	if len(active) != 1 {
		t.Fatalf("active reservations = %d, want 1", len(active))
	}
	res := active[0]
	if res.Quantity != 3 || res.VariantID != 2 {
		t.Errorf("reservation = %+v, want qty 3 on variant 2", res)
	}
	if want := testNow.Add(15 * time.Minute); !res.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", res.ExpiresAt, want)
	}
}

func TestAddItemInsufficientStock(t *testing.T) {
	s := seedCartState()
	v := s.variants[2]
	v.StockQuantity = 5
	s.variants[2] = v
	svc := newTestCartService(s)

	// The boundary case succeeds: reserving exactly what is available.
	if _, err := svc.AddItem(t.Context(), 5, 2, 5, model.TierBronze, ""); err != nil {
		t.Fatalf("AddItem at boundary: %v", err)
	}
	// One more unit must fail and leave all state untouched.
	_, err := svc.AddItem(t.Context(), 5, 2, 1, model.TierBronze, "")
	if !errors.Is(err, model.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if got := s.variants[2].ReservedQuantity; got != 5 {
		t.Errorf("ReservedQuantity = %d after failed add, want 5", got)
	}
	if len(s.items) != 1 || len(s.reservations) != 1 {
		t.Errorf("items=%d reservations=%d after failed add, want 1 and 1",
			len(s.items), len(s.reservations))
	}
}

func TestAddItemInvalidQuantity(t *testing.T) {
	svc := newTestCartService(seedCartState())
	for _, qty := range []int{0, -1} {
		if _, err := svc.AddItem(t.Context(), 5, 2, qty, model.TierBronze, ""); !errors.Is(err, model.ErrInvalidQuantity) {
			t.Errorf("AddItem(qty=%d) err = %v, want ErrInvalidQuantity", qty, err)
		}
	}
}

func TestAddItemHonorsHoldTTLOption(t *testing.T) {
	s := seedCartState()
	svc := newTestCartService(s, WithHoldTTL(5*time.Minute))

	item, err := svc.AddItem(t.Context(), 5, 2, 1, model.TierBronze, "")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	active, _ := (&memReservations{s: s}).ActiveByCartItem(t.Context(), item.ID)
	if want := testNow.Add(5 * time.Minute); !active[0].ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", active[0].ExpiresAt, want)
	}
}

func TestUpdateItemQuantityGrow(t *testing.T) {
	s := seedCartState()
	s.rules = []model.PricingRule{{
		ID: 1, Type: model.RuleTypeSeasonal, TargetType: model.TargetTypeProduct,
		TargetID: ptr(uint64(1)), Percentage: ptr(10.0), Active: true,
	}}
	svc := newTestCartService(s)

	item, err := svc.AddItem(t.Context(), 5, 2, 2, model.TierBronze, "")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	// Deactivating the rule afterwards must not change the frozen price.
	s.rules[0].Active = false

	got, err := svc.UpdateItemQuantity(t.Context(), item.ID, 5)
	if err != nil {
		t.Fatalf("UpdateItemQuantity: %v", err)
	}
	if got.Quantity != 5 || !almostEqual(got.Subtotal, 450) {
		t.Errorf("item = qty %d subtotal %v, want 5 and 450", got.Quantity, got.Subtotal)
	}
	if r := s.variants[2].ReservedQuantity; r != 5 {
		t.Errorf("ReservedQuantity = %d, want 5", r)
	}
	active, _ := (&memReservations{s: s}).ActiveByCartItem(t.Context(), item.ID)
	if len(active) != 1 || active[0].Quantity != 5 {
		t.Errorf("active = %+v, want one reservation of 5", active)
	}
}

func TestUpdateItemQuantityShrinkDrainsAndReleases(t *testing.T) {
	s := seedCartState()
	svc := newTestCartService(s)

	item, err := svc.AddItem(t.Context(), 5, 2, 3, model.TierBronze, "")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	// A second hold for the same line, as resize history would leave it.
	s.nextResID++
	s.reservations[s.nextResID] = model.Reservation{
		ID: s.nextResID, VariantID: 2, CartItemID: ptr(item.ID),
		Quantity: 2, ExpiresAt: testNow.Add(15 * time.Minute),
	}
	v := s.variants[2]
	v.ReservedQuantity += 2
	s.variants[2] = v
	if err := (&memCarts{s: s}).UpdateItemQuantity(t.Context(), item.ID, 5, item.UnitPrice*5); err != nil {
		t.Fatal(err)
	}

	// 5 -> 1 drains the first record to zero (releasing it) and leaves
	// one unit on the second.
	got, err := svc.UpdateItemQuantity(t.Context(), item.ID, 1)
	if err != nil {
		t.Fatalf("UpdateItemQuantity: %v", err)
	}
	if got.Quantity != 1 {
		t.Errorf("Quantity = %d, want 1", got.Quantity)
	}
	if r := s.variants[2].ReservedQuantity; r != 1 {
		t.Errorf("ReservedQuantity = %d, want 1", r)
	}
	if first := s.reservations[1]; !first.Released || first.Quantity != 0 {
		t.Errorf("first reservation = %+v, want released at zero", first)
	}
	second := s.reservations[2]
	if second.Released || second.Quantity != 1 {
		t.Errorf("second reservation = %+v, want 1 unit still held", second)
	}
	if want := testNow.Add(15 * time.Minute); !second.ExpiresAt.Equal(want) {
		t.Errorf("touched reservation expiry = %v, want refreshed to %v", second.ExpiresAt, want)
	}
}

func TestUpdateItemQuantityGrowBeyondStock(t *testing.T) {
	s := seedCartState()
	v := s.variants[2]
	v.StockQuantity = 4
	s.variants[2] = v
	svc := newTestCartService(s)

	item, err := svc.AddItem(t.Context(), 5, 2, 3, model.TierBronze, "")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	_, err = svc.UpdateItemQuantity(t.Context(), item.ID, 6)
	if !errors.Is(err, model.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	// The failed resize must leave the original hold intact.
	if r := s.variants[2].ReservedQuantity; r != 3 {
		t.Errorf("ReservedQuantity = %d after failed resize, want 3", r)
	}
	if got, _ := (&memCarts{s: s}).ItemByID(t.Context(), item.ID); got.Quantity != 3 {
		t.Errorf("item quantity = %d after failed resize, want 3", got.Quantity)
	}
}

func TestRemoveItemReleasesHolds(t *testing.T) {
	s := seedCartState()
	svc := newTestCartService(s)

	item, err := svc.AddItem(t.Context(), 5, 2, 4, model.TierBronze, "")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.RemoveItem(t.Context(), item.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	// Reserve then remove must round-trip the ledger back to where it
	// started.
	if r := s.variants[2].ReservedQuantity; r != 0 {
		t.Errorf("ReservedQuantity = %d after remove, want 0", r)
	}
	if _, err := (&memCarts{s: s}).ItemByID(t.Context(), item.ID); !errors.Is(err, model.ErrCartItemNotFound) {
		t.Errorf("item still present after remove: %v", err)
	}
	if res := s.reservations[1]; !res.Released {
		t.Errorf("reservation not released: %+v", res)
	}
}

func TestRemoveItemWithoutActiveHolds(t *testing.T) {
	s := seedCartState()
	s.nextItemID++
	s.items[s.nextItemID] = model.CartItem{ID: s.nextItemID, CartID: 5, VariantID: 2, Quantity: 2, UnitPrice: 100, Subtotal: 200}
	svc := newTestCartService(s)

	if err := svc.RemoveItem(t.Context(), s.nextItemID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(s.items) != 0 {
		t.Errorf("items = %d after remove, want 0", len(s.items))
	}
	if r := s.variants[2].ReservedQuantity; r != 0 {
		t.Errorf("ReservedQuantity = %d, want untouched 0", r)
	}
}
