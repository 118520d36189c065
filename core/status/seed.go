package status

import (
	"context"
	"fmt"
)

// Seed loads the demo dataset: two plans, one customer with a usage history,
// contract terms, and a known outage in Mumbai West.
func (s *Store) Seed(ctx context.Context) error {
	seeds := []struct {
		query string
		args  []any
	}{
		{
			`INSERT OR IGNORE INTO service_plans (plan_id, name, monthly_cost, data_limit_gb, voice_minutes, sms_count, description) VALUES (?,?,?,?,?,?,?)`,
			[]any{"PLAN_BASIC", "Basic Plan", 299.0, 10.0, 500, 100, "Suitable for light users"},
		},
		{
			`INSERT OR IGNORE INTO service_plans (plan_id, name, monthly_cost, data_limit_gb, voice_minutes, sms_count, description) VALUES (?,?,?,?,?,?,?)`,
			[]any{"PLAN_FAMILY", "Family Plus", 999.0, 200.0, 5000, 1000, "Good for families and heavy video streaming"},
		},
		{
			`INSERT OR IGNORE INTO contract_terms (plan_id, term_months, early_termination_fee, notes) VALUES (?,?,?,?)`,
			[]any{"PLAN_BASIC", 12, 150.0, "Pro-rated early termination fee for 12-month contract"},
		},
		{
			`INSERT OR IGNORE INTO contract_terms (plan_id, term_months, early_termination_fee, notes) VALUES (?,?,?,?)`,
			[]any{"PLAN_FAMILY", 24, 499.0, "Higher ETF for 24-month premium plan"},
		},
		{
			`INSERT OR IGNORE INTO customers (customer_id, name, email, phone_number, service_plan_id, account_status) VALUES (?,?,?,?,?,?)`,
			[]any{"CUST001", "Test User", "test@example.com", "9999999999", "PLAN_BASIC", "active"},
		},
		{
			`INSERT INTO customer_usage (customer_id, billing_period_start, billing_period_end, data_used_gb, voice_minutes_used, sms_count_used, additional_charges, total_bill_amount) VALUES (?,?,?,?,?,?,?,?)`,
			[]any{"CUST001", "2025-10-01", "2025-10-31", 8.2, 400, 25, 0.0, 299.0},
		},
		{
			`INSERT INTO customer_usage (customer_id, billing_period_start, billing_period_end, data_used_gb, voice_minutes_used, sms_count_used, additional_charges, total_bill_amount) VALUES (?,?,?,?,?,?,?,?)`,
			[]any{"CUST001", "2025-11-01", "2025-11-30", 12.5, 450, 30, 50.0, 399.0},
		},
		{
			`INSERT OR IGNORE INTO network_status (area, status, updated_at, details) VALUES (?,?,?,?)`,
			[]any{"Mumbai West", "Outage", "2025-12-01", "Localized antenna maintenance affecting voice calls"},
		},
	}

	for _, seed := range seeds {
		if _, err := s.db.ExecContext(ctx, seed.query, seed.args...); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}
