package service

import (
	"context"
	"strings"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/clock"
	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

// passOrder fixes the sequence of discount passes. Discounts compound:
// each pass subtracts from the price left by the previous one, not
// from the original base.
var passOrder = []string{
	model.RuleTypeSeasonal,
	model.RuleTypeBulk,
	model.RuleTypeUserTier,
	model.RuleTypePromo,
}

// QuoteInput identifies what is being priced and for whom. VariantID
// and UserID are optional; UserID becomes mandatory as soon as a
// matching rule carries a per-user usage cap.
type QuoteInput struct {
	ProductID uint64
	VariantID *uint64
	Quantity  int
	UserTier  string
	PromoCode string
	UserID    *uint64
}

// PriceResult is the full breakdown of a quote. AppliedRules lists
// the rules that fired, in application order, with the amount each
// took off the running price.
type PriceResult struct {
	BasePrice         float64                 `json:"base_price"`
	VariantAdjustment float64                 `json:"variant_adjustment"`
	AppliedRules      []model.AppliedDiscount `json:"applied_rules"`
	FinalUnitPrice    float64                 `json:"final_unit_price"`
	TotalPrice        float64                 `json:"total_price"`
}

// PricingEngine computes deterministic discounted prices. Quoting is a
// pure read: usage counters are consulted but never advanced, so
// repeated quotes cannot exhaust a cap; only checkout consumes usage.
type PricingEngine struct {
	catalog  CatalogStore
	variants VariantStore
	rules    RuleStore
	usage    RuleUsageStore
	clock    clock.Clock
}

// NewPricingEngine constructs a PricingEngine over the given stores.
func NewPricingEngine(catalog CatalogStore, variants VariantStore, rules RuleStore, usage RuleUsageStore, clk clock.Clock) *PricingEngine {
	return &PricingEngine{catalog: catalog, variants: variants, rules: rules, usage: usage, clock: clk}
}

// Quote resolves the unit price for a product or variant and applies
// every eligible rule in the fixed pass order SEASONAL, BULK,
// USER_TIER, PROMO. A rule's discount is percentage-of-running-price
// plus flat amount; the unit price never goes below zero.
func (e *PricingEngine) Quote(ctx context.Context, in QuoteInput) (PriceResult, error) {
	product, err := e.catalog.ByID(ctx, in.ProductID)
	if err != nil {
		return PriceResult{}, err
	}
	result := PriceResult{BasePrice: product.BasePrice}
	if in.VariantID != nil {
		variant, err := e.variants.ByID(ctx, *in.VariantID)
		if err != nil {
			return PriceResult{}, err
		}
		result.VariantAdjustment = variant.PriceAdjustment
	}
	price := result.BasePrice + result.VariantAdjustment

	rules, err := e.rules.ActiveValidRules(ctx, e.clock.Now())
	if err != nil {
		return PriceResult{}, err
	}
	for _, pass := range passOrder {
		for _, rule := range rules {
			if rule.Type != pass {
				continue
			}
			if !matchesType(rule, in) {
				continue
			}
			if !matchesTarget(rule, in.ProductID, in.VariantID, product.CategoryID) {
				continue
			}
			allowed, err := e.usageAllowed(ctx, rule, in.UserID)
			if err != nil {
				return PriceResult{}, err
			}
			if !allowed {
				continue
			}
			discount := 0.0
			if rule.Percentage != nil {
				discount = price * (*rule.Percentage / 100)
			}
			if rule.FlatAmount != nil {
				discount += *rule.FlatAmount
			}
			price -= discount
			result.AppliedRules = append(result.AppliedRules, model.AppliedDiscount{
				RuleID:         rule.ID,
				Type:           rule.Type,
				DiscountAmount: discount,
			})
		}
	}

	if price < 0 {
		price = 0
	}
	result.FinalUnitPrice = price
	result.TotalPrice = price * float64(in.Quantity)
	return result, nil
}

// matchesType checks the type-specific predicate of a rule. SEASONAL
// rules have none beyond the validity window the store already
// enforced.
func matchesType(rule model.PricingRule, in QuoteInput) bool {
	switch rule.Type {
	case model.RuleTypeSeasonal:
		return true
	case model.RuleTypeBulk:
		return rule.MinQuantity != nil && in.Quantity >= *rule.MinQuantity
	case model.RuleTypeUserTier:
		return rule.UserTier != nil && strings.EqualFold(*rule.UserTier, in.UserTier)
	case model.RuleTypePromo:
		return rule.PromoCode != nil && in.PromoCode != "" && strings.EqualFold(*rule.PromoCode, in.PromoCode)
	}
	return false
}

func matchesTarget(rule model.PricingRule, productID uint64, variantID *uint64, categoryID uint64) bool {
	if rule.TargetID == nil {
		return false
	}
	switch rule.TargetType {
	case model.TargetTypeProduct:
		return *rule.TargetID == productID
	case model.TargetTypeVariant:
		return variantID != nil && *rule.TargetID == *variantID
	case model.TargetTypeCategory:
		return *rule.TargetID == categoryID
	}
	return false
}

// usageAllowed enforces usage caps against the current counters. A
// per-user cap cannot be checked without a user identity, so a nil
// userID fails with ErrUserIDRequired rather than silently skipping
// the cap.
func (e *PricingEngine) usageAllowed(ctx context.Context, rule model.PricingRule, userID *uint64) (bool, error) {
	if rule.UsageLimit != nil {
		total, err := e.usage.SumByRule(ctx, rule.ID)
		if err != nil {
			return false, err
		}
		if total >= int64(*rule.UsageLimit) {
			return false, nil
		}
	}
	if rule.UsagePerUser != nil {
		if userID == nil {
			return false, model.ErrUserIDRequired
		}
		used, err := e.usage.SumByRuleAndUser(ctx, rule.ID, *userID)
		if err != nil {
			return false, err
		}
		if used >= int64(*rule.UsagePerUser) {
			return false, nil
		}
	}
	return true, nil
}
