package model

import "time"

// Rule types, applied by the pricing engine in this fixed order.
const (
	RuleTypeSeasonal = "SEASONAL"
	RuleTypeBulk     = "BULK"
	RuleTypeUserTier = "USER_TIER"
	RuleTypePromo    = "PROMO"
)

// Rule target types.
const (
	TargetTypeProduct  = "PRODUCT"
	TargetTypeVariant  = "VARIANT"
	TargetTypeCategory = "CATEGORY"
)

// User tiers matched by USER_TIER rules.
const (
	TierBronze = "BRONZE"
	TierSilver = "SILVER"
	TierGold   = "GOLD"
)

// PricingRule is a discount policy. A rule participates in a quote
// when it is active, the current time falls inside its validity
// window (nil bounds are open), its target matches the priced
// product/variant/category, its type-specific predicate holds and its
// usage caps are not exhausted. Rules are read-only to the pricing
// computation; they are administered over the CRUD endpoints.
//
// Fields:
//  ID           - primary key identifier.
//  Type         - one of the RuleType constants.
//  TargetType   - one of the TargetType constants.
//  TargetID     - id of the targeted product, variant or category.
//  Percentage   - percent taken off the running price (nil = none).
//  FlatAmount   - flat amount taken off the running price (nil = none).
//  MinQuantity  - minimum line quantity (BULK rules).
//  UserTier     - required user tier (USER_TIER rules).
//  PromoCode    - code the shopper must present (PROMO rules).
//  StartAt      - validity window start (nil = open).
//  EndAt        - validity window end (nil = open).
//  UsageLimit   - global cap on consumptions (nil = unlimited).
//  UsagePerUser - per-user cap on consumptions (nil = unlimited).
//  Active       - administrative kill switch.
type PricingRule struct {
	ID           uint64     // pricing_rules.id
	Type         string     // pricing_rules.type
	TargetType   string     // pricing_rules.target_type
	TargetID     *uint64    // pricing_rules.target_id (nullable)
	Percentage   *float64   // pricing_rules.percentage (nullable)
	FlatAmount   *float64   // pricing_rules.flat_amount (nullable)
	MinQuantity  *int       // pricing_rules.min_quantity (nullable)
	UserTier     *string    // pricing_rules.user_tier (nullable)
	PromoCode    *string    // pricing_rules.promo_code (nullable)
	StartAt      *time.Time // pricing_rules.start_at (nullable)
	EndAt        *time.Time // pricing_rules.end_at (nullable)
	UsageLimit   *int       // pricing_rules.usage_limit (nullable)
	UsagePerUser *int       // pricing_rules.usage_per_user (nullable)
	Active       bool       // pricing_rules.active
}

// PricingRuleUsage counts how many times a user has consumed a rule.
// There is exactly one row per (rule, user) pair; it is incremented
// once per checked-out cart item whose frozen discount trail
// references the rule, never at quote time.
type PricingRuleUsage struct {
	ID        uint64 // pricing_rule_usage.id
	RuleID    uint64 // pricing_rule_usage.rule_id
	UserID    uint64 // pricing_rule_usage.user_id
	UsedCount int64  // pricing_rule_usage.used_count
}
