package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Shamshuu/E-commerce-Inventory-and-Dynamic-Pricing-API--24A95A1211/internal/model"
)

// PricingRuleRepo provides data access to the pricing_rules table.
// The engine only ever reads rules; writes come from the admin
// endpoints.
type PricingRuleRepo struct {
	db *sql.DB
}

// NewPricingRuleRepo returns a PricingRuleRepo bound to the provided database.
func NewPricingRuleRepo(db *sql.DB) *PricingRuleRepo {
	return &PricingRuleRepo{db: db}
}

const ruleColumns = `id, type, target_type, target_id, percentage, flat_amount,
	min_quantity, user_tier, promo_code, start_at, end_at, usage_limit, usage_per_user, active`

// ActiveValidRules returns every active rule whose validity window
// contains now. A NULL bound is open: NULL start_at means "since
// forever", NULL end_at means "until further notice".
func (r *PricingRuleRepo) ActiveValidRules(ctx context.Context, now time.Time) ([]model.PricingRule, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx,
		`SELECT `+ruleColumns+` FROM pricing_rules
		 WHERE active = TRUE
		   AND (start_at IS NULL OR start_at <= ?)
		   AND (end_at IS NULL OR end_at >= ?)
		 ORDER BY id`, now.UTC(), now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRules(rows)
}

// ByID fetches a rule by primary key.
func (r *PricingRuleRepo) ByID(ctx context.Context, id uint64) (model.PricingRule, error) {
	var rule model.PricingRule
	err := scanRule(q(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+ruleColumns+` FROM pricing_rules WHERE id = ?`, id), &rule)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PricingRule{}, model.ErrRuleNotFound
	}
	return rule, err
}

// Create inserts a new rule and populates its ID.
func (r *PricingRuleRepo) Create(ctx context.Context, rule *model.PricingRule) error {
	res, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO pricing_rules
		 (type, target_type, target_id, percentage, flat_amount, min_quantity,
		  user_tier, promo_code, start_at, end_at, usage_limit, usage_per_user, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.Type, rule.TargetType, rule.TargetID, rule.Percentage, rule.FlatAmount,
		rule.MinQuantity, rule.UserTier, rule.PromoCode, nullTime(rule.StartAt),
		nullTime(rule.EndAt), rule.UsageLimit, rule.UsagePerUser, rule.Active)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rule.ID = uint64(id)
	return nil
}

// List returns all rules ordered by id.
func (r *PricingRuleRepo) List(ctx context.Context) ([]model.PricingRule, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx,
		`SELECT `+ruleColumns+` FROM pricing_rules ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRules(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner, rule *model.PricingRule) error {
	var startAt, endAt sql.NullTime
	err := row.Scan(&rule.ID, &rule.Type, &rule.TargetType, &rule.TargetID,
		&rule.Percentage, &rule.FlatAmount, &rule.MinQuantity, &rule.UserTier,
		&rule.PromoCode, &startAt, &endAt, &rule.UsageLimit, &rule.UsagePerUser, &rule.Active)
	if err != nil {
		return err
	}
	if startAt.Valid {
		t := startAt.Time
		rule.StartAt = &t
	}
	if endAt.Valid {
		t := endAt.Time
		rule.EndAt = &t
	}
	return nil
}

func collectRules(rows *sql.Rows) ([]model.PricingRule, error) {
	var out []model.PricingRule
	for rows.Next() {
		var rule model.PricingRule
		if err := scanRule(rows, &rule); err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
