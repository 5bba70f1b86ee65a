package repository

import (
	"context"
	"database/sql"
)

// RuleUsageRepo provides data access to the pricing_rule_usage
// counters, one row per (rule, user) pair. The sums feed the
// usage-allowed check in quoting; Increment is only called inside the
// checkout transaction, so cap enforcement is strict at checkout and
// best-effort at quote time.
type RuleUsageRepo struct {
	db *sql.DB
}

// NewRuleUsageRepo returns a RuleUsageRepo bound to the provided database.
func NewRuleUsageRepo(db *sql.DB) *RuleUsageRepo {
	return &RuleUsageRepo{db: db}
}

// SumByRule returns the total consumptions of a rule across all users.
func (r *RuleUsageRepo) SumByRule(ctx context.Context, ruleID uint64) (int64, error) {
	var n int64
	err := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(used_count), 0) FROM pricing_rule_usage WHERE rule_id = ?`, ruleID).
		Scan(&n)
	return n, err
}

// SumByRuleAndUser returns one user's consumptions of a rule.
func (r *RuleUsageRepo) SumByRuleAndUser(ctx context.Context, ruleID, userID uint64) (int64, error) {
	var n int64
	err := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(used_count), 0) FROM pricing_rule_usage
		 WHERE rule_id = ? AND user_id = ?`, ruleID, userID).
		Scan(&n)
	return n, err
}

// Increment adds one consumption for the (rule, user) pair, creating
// the counter row on first use. The upsert takes the row lock, so
// concurrent checkouts touching the same pair serialize here.
func (r *RuleUsageRepo) Increment(ctx context.Context, ruleID, userID uint64) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`INSERT INTO pricing_rule_usage (rule_id, user_id, used_count)
		 VALUES (?, ?, 1)
		 ON DUPLICATE KEY UPDATE used_count = used_count + 1`, ruleID, userID)
	return err
}
