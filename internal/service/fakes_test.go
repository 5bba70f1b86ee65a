package service

import (
	"context"
	"time"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

// memState holds the shared in-memory data behind every fake store.
// Tests mutate its maps directly to arrange state.
type memState struct {
	products     map[uint64]model.Product
	variants     map[uint64]model.Variant
	reservations map[uint64]model.Reservation
	nextResID    uint64
	carts        map[uint64]model.Cart
	items        map[uint64]model.CartItem
	nextItemID   uint64
	rules        []model.PricingRule
	usage        map[[2]uint64]int64
	orders       map[uint64]model.Order
	nextOrderID  uint64
}

func newMemState() *memState {
	return &memState{
		products:     map[uint64]model.Product{},
		variants:     map[uint64]model.Variant{},
		reservations: map[uint64]model.Reservation{},
		carts:        map[uint64]model.Cart{},
		items:        map[uint64]model.CartItem{},
		usage:        map[[2]uint64]int64{},
		orders:       map[uint64]model.Order{},
	}
}

func (m *memState) clone() *memState {
	c := newMemState()
	for k, v := range m.products {
		c.products[k] = v
	}
	for k, v := range m.variants {
		c.variants[k] = v
	}
	for k, v := range m.reservations {
		if v.CartItemID != nil {
			id := *v.CartItemID
			v.CartItemID = &id
		}
		c.reservations[k] = v
	}
	for k, v := range m.carts {
		c.carts[k] = v
	}
	for k, v := range m.items {
		v.Discounts = append([]model.AppliedDiscount(nil), v.Discounts...)
		c.items[k] = v
	}
	c.rules = append([]model.PricingRule(nil), m.rules...)
	for k, v := range m.usage {
		c.usage[k] = v
	}
	for k, v := range m.orders {
		c.orders[k] = v
	}
	c.nextResID = m.nextResID
	c.nextItemID = m.nextItemID
	c.nextOrderID = m.nextOrderID
	return c
}

// memTx snapshots the state before the closure and restores it when
// the closure errors, mirroring a database rollback.
type memTx struct {
	state *memState
}

func (t *memTx) WithTx(_ context.Context, fn func(ctx context.Context) error) error {
	snapshot := t.state.clone()
	if err := fn(context.Background()); err != nil {
		*t.state = *snapshot
		return err
	}
	return nil
}

type memProducts struct{ s *memState }

func (p *memProducts) ByID(_ context.Context, id uint64) (model.Product, error) {
	prod, ok := p.s.products[id]
	if !ok {
		return model.Product{}, model.ErrProductNotFound
	}
	return prod, nil
}

type memVariants struct{ s *memState }

func (v *memVariants) LockByID(_ context.Context, id uint64) (model.Variant, error) {
	variant, ok := v.s.variants[id]
	if !ok {
		return model.Variant{}, model.ErrVariantNotFound
	}
	return variant, nil
}

func (v *memVariants) ByID(ctx context.Context, id uint64) (model.Variant, error) {
	return v.LockByID(ctx, id)
}

func (v *memVariants) SaveCounters(_ context.Context, variant model.Variant) error {
	if _, ok := v.s.variants[variant.ID]; !ok {
		return model.ErrVariantNotFound
	}
	v.s.variants[variant.ID] = variant
	return nil
}

type memReservations struct{ s *memState }

func (r *memReservations) Create(_ context.Context, res *model.Reservation) error {
	r.s.nextResID++
	res.ID = r.s.nextResID
	r.s.reservations[res.ID] = *res
	return nil
}

func (r *memReservations) ByID(_ context.Context, id uint64) (model.Reservation, error) {
	res, ok := r.s.reservations[id]
	if !ok {
		return model.Reservation{}, model.ErrReservationNotFound
	}
	return res, nil
}

func (r *memReservations) Save(_ context.Context, res model.Reservation) error {
	if _, ok := r.s.reservations[res.ID]; !ok {
		return model.ErrReservationNotFound
	}
	r.s.reservations[res.ID] = res
	return nil
}

func (r *memReservations) LinkCartItem(_ context.Context, reservationID, cartItemID uint64) error {
	res, ok := r.s.reservations[reservationID]
	if !ok {
		return model.ErrReservationNotFound
	}
	res.CartItemID = &cartItemID
	r.s.reservations[reservationID] = res
	return nil
}

func (r *memReservations) ActiveByCartItem(_ context.Context, cartItemID uint64) ([]model.Reservation, error) {
	var out []model.Reservation
	for id := uint64(1); id <= r.s.nextResID; id++ {
		res, ok := r.s.reservations[id]
		if !ok || res.Released {
			continue
		}
		if res.CartItemID != nil && *res.CartItemID == cartItemID {
			out = append(out, res)
		}
	}
	return out, nil
}

type memCarts struct{ s *memState }

func (c *memCarts) CartByID(_ context.Context, id uint64) (model.Cart, error) {
	cart, ok := c.s.carts[id]
	if !ok {
		return model.Cart{}, model.ErrCartNotFound
	}
	return cart, nil
}

func (c *memCarts) SetCartStatus(_ context.Context, id uint64, status string) error {
	cart, ok := c.s.carts[id]
	if !ok {
		return model.ErrCartNotFound
	}
	cart.Status = status
	c.s.carts[id] = cart
	return nil
}

func (c *memCarts) CreateItem(_ context.Context, item *model.CartItem) error {
	c.s.nextItemID++
	item.ID = c.s.nextItemID
	c.s.items[item.ID] = *item
	return nil
}

func (c *memCarts) ItemByID(_ context.Context, id uint64) (model.CartItem, error) {
	item, ok := c.s.items[id]
	if !ok {
		return model.CartItem{}, model.ErrCartItemNotFound
	}
	return item, nil
}

func (c *memCarts) UpdateItemQuantity(_ context.Context, id uint64, quantity int, subtotal float64) error {
	item, ok := c.s.items[id]
	if !ok {
		return model.ErrCartItemNotFound
	}
	item.Quantity = quantity
	item.Subtotal = subtotal
	c.s.items[id] = item
	return nil
}

func (c *memCarts) DeleteItem(_ context.Context, id uint64) error {
	if _, ok := c.s.items[id]; !ok {
		return model.ErrCartItemNotFound
	}
	delete(c.s.items, id)
	return nil
}

type memRules struct{ s *memState }

// ActiveValidRules applies the same active and validity-window filter
// the SQL repository bakes into its query.
func (r *memRules) ActiveValidRules(_ context.Context, now time.Time) ([]model.PricingRule, error) {
	var out []model.PricingRule
	for _, rule := range r.s.rules {
		if !rule.Active {
			continue
		}
		if rule.StartAt != nil && now.Before(*rule.StartAt) {
			continue
		}
		if rule.EndAt != nil && now.After(*rule.EndAt) {
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}

type memUsage struct{ s *memState }

func (u *memUsage) SumByRule(_ context.Context, ruleID uint64) (int64, error) {
	var total int64
	for key, count := range u.s.usage {
		if key[0] == ruleID {
			total += count
		}
	}
	return total, nil
}

func (u *memUsage) SumByRuleAndUser(_ context.Context, ruleID, userID uint64) (int64, error) {
	return u.s.usage[[2]uint64{ruleID, userID}], nil
}

func (u *memUsage) Increment(_ context.Context, ruleID, userID uint64) error {
	u.s.usage[[2]uint64{ruleID, userID}]++
	return nil
}

type memOrders struct{ s *memState }

func (o *memOrders) Create(_ context.Context, order *model.Order) error {
	o.s.nextOrderID++
	order.ID = o.s.nextOrderID
	o.s.orders[order.ID] = *order
	return nil
}

func ptr[T any](v T) *T { return &v }
