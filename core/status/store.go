// Package status owns the operational SQLite store: network incident reports
// plus the customer, plan, usage and contract rows the domain handlers read.
// All access is read-only per request; writes happen only through Migrate and
// Seed.
package status

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Incident is one row from the network_status table.
type Incident struct {
	Area      string
	Status    string
	UpdatedAt string
	Details   string
}

// Customer is an account row joined with its current plan.
type Customer struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	PlanID        string
	AccountStatus string
	PlanName      string
	MonthlyCost   float64
	DataLimitGB   float64
}

// Plan is a service plan offering.
type Plan struct {
	ID          string
	Name        string
	MonthlyCost float64
	DataLimitGB float64
	VoiceMins   int
	SMSCount    int
	Description string
}

// Usage is one billing-period usage row.
type Usage struct {
	CustomerID        string
	PeriodStart       string
	PeriodEnd         string
	DataUsedGB        float64
	VoiceMinutesUsed  int
	SMSUsed           int
	AdditionalCharges float64
	TotalBill         float64
}

// ContractTerm describes termination conditions for a plan.
type ContractTerm struct {
	PlanID         string
	TermMonths     int
	TerminationFee float64
	Notes          string
}

// StoreConfig mirrors the connection knobs we care about for a small
// single-file database.
type StoreConfig struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	BusyTimeout time.Duration
}

func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		MaxOpen:     4,
		MaxIdle:     2,
		MaxLifetime: time.Hour,
		BusyTimeout: 5 * time.Second,
	}
}

// Store wraps the SQLite handle.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database file and applies the schema.
func Open(path string, config StoreConfig) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=1",
		path, int(config.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpen)
	db.SetMaxIdleConns(config.MaxIdle)
	db.SetConnMaxLifetime(config.MaxLifetime)

	s := &Store{db: db, path: path}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

// LookupIncidents returns incidents whose area contains the given substring,
// case-insensitive. An empty area matches nothing.
func (s *Store) LookupIncidents(ctx context.Context, area string) ([]Incident, error) {
	if area == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT area, status, updated_at, details FROM network_status WHERE area LIKE ?`,
		"%"+area+"%")
	if err != nil {
		return nil, fmt.Errorf("lookup incidents: %w", err)
	}
	defer rows.Close()

	var incidents []Incident
	for rows.Next() {
		var inc Incident
		if err := rows.Scan(&inc.Area, &inc.Status, &inc.UpdatedAt, &inc.Details); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}

// CustomerByID fetches an account joined with its current plan. Returns
// sql.ErrNoRows when the customer does not exist.
func (s *Store) CustomerByID(ctx context.Context, customerID string) (*Customer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.customer_id, c.name, c.email, c.phone_number, c.service_plan_id,
		       c.account_status,
		       COALESCE(sp.name, ''), COALESCE(sp.monthly_cost, 0), COALESCE(sp.data_limit_gb, 0)
		FROM customers c
		LEFT JOIN service_plans sp ON c.service_plan_id = sp.plan_id
		WHERE c.customer_id = ?`, customerID)

	var cust Customer
	err := row.Scan(&cust.ID, &cust.Name, &cust.Email, &cust.Phone, &cust.PlanID,
		&cust.AccountStatus, &cust.PlanName, &cust.MonthlyCost, &cust.DataLimitGB)
	if err != nil {
		return nil, fmt.Errorf("fetch customer %s: %w", customerID, err)
	}
	return &cust, nil
}

// RecentUsage returns up to limit usage rows for the customer, newest first.
func (s *Store) RecentUsage(ctx context.Context, customerID string, limit int) ([]Usage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT customer_id, billing_period_start, billing_period_end,
		       data_used_gb, voice_minutes_used, sms_count_used,
		       additional_charges, total_bill_amount
		FROM customer_usage
		WHERE customer_id = ?
		ORDER BY billing_period_start DESC
		LIMIT ?`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch usage: %w", err)
	}
	defer rows.Close()

	var usage []Usage
	for rows.Next() {
		var u Usage
		if err := rows.Scan(&u.CustomerID, &u.PeriodStart, &u.PeriodEnd,
			&u.DataUsedGB, &u.VoiceMinutesUsed, &u.SMSUsed,
			&u.AdditionalCharges, &u.TotalBill); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

// Plans returns every service plan, cheapest first.
func (s *Store) Plans(ctx context.Context) ([]Plan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT plan_id, name, monthly_cost, data_limit_gb, voice_minutes, sms_count, description
		FROM service_plans
		ORDER BY monthly_cost ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetch plans: %w", err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.MonthlyCost, &p.DataLimitGB,
			&p.VoiceMins, &p.SMSCount, &p.Description); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// ContractTermsForPlan returns the termination terms recorded for a plan.
func (s *Store) ContractTermsForPlan(ctx context.Context, planID string) ([]ContractTerm, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT plan_id, term_months, early_termination_fee, COALESCE(notes, '')
		FROM contract_terms
		WHERE plan_id = ?`, planID)
	if err != nil {
		return nil, fmt.Errorf("fetch contract terms: %w", err)
	}
	defer rows.Close()

	var terms []ContractTerm
	for rows.Next() {
		var t ContractTerm
		if err := rows.Scan(&t.PlanID, &t.TermMonths, &t.TerminationFee, &t.Notes); err != nil {
			return nil, fmt.Errorf("scan contract term: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// AllContractTerms returns every contract term row.
func (s *Store) AllContractTerms(ctx context.Context) ([]ContractTerm, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT plan_id, term_months, early_termination_fee, COALESCE(notes, '')
		FROM contract_terms`)
	if err != nil {
		return nil, fmt.Errorf("fetch contract terms: %w", err)
	}
	defer rows.Close()

	var terms []ContractTerm
	for rows.Next() {
		var t ContractTerm
		if err := rows.Scan(&t.PlanID, &t.TermMonths, &t.TerminationFee, &t.Notes); err != nil {
			return nil, fmt.Errorf("scan contract term: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// AddIncident records a network incident. Used by seeding and tests.
func (s *Store) AddIncident(ctx context.Context, inc Incident) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO network_status (area, status, updated_at, details) VALUES (?, ?, ?, ?)`,
		inc.Area, inc.Status, inc.UpdatedAt, inc.Details)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id TEXT PRIMARY KEY,
			name TEXT,
			email TEXT,
			phone_number TEXT,
			service_plan_id TEXT,
			account_status TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS service_plans (
			plan_id TEXT PRIMARY KEY,
			name TEXT,
			monthly_cost REAL,
			data_limit_gb REAL,
			voice_minutes INTEGER,
			sms_count INTEGER,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS contract_terms (
			plan_id TEXT,
			term_months INTEGER,
			early_termination_fee REAL,
			notes TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS customer_usage (
			usage_id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id TEXT,
			billing_period_start TEXT,
			billing_period_end TEXT,
			data_used_gb REAL,
			voice_minutes_used INTEGER,
			sms_count_used INTEGER,
			additional_charges REAL,
			total_bill_amount REAL
		)`,
		`CREATE TABLE IF NOT EXISTS network_status (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			area TEXT,
			status TEXT,
			updated_at TEXT,
			details TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
