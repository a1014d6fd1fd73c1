package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/spitex-domus/domus-backend/pkg/database"
)

// MonthlyBalance is the per-employee, per-month aggregate:
// balance = actual + surcharge - target + previous.
type MonthlyBalance struct {
	ID              string    `db:"id" json:"id"`
	EmployeeID      string    `db:"employee_id" json:"employee_id"`
	Year            int       `db:"year" json:"year"`
	Month           int       `db:"month" json:"month"`
	TargetHours     float64   `db:"target_hours" json:"target_hours"`
	ActualHours     float64   `db:"actual_hours" json:"actual_hours"`
	SurchargeHours  float64   `db:"surcharge_hours" json:"surcharge_hours"`
	PlannedHours    float64   `db:"planned_hours" json:"planned_hours"`
	Balance         float64   `db:"balance" json:"balance"`
	PreviousBalance float64   `db:"previous_balance" json:"previous_balance"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// BalanceRepository handles monthly balance persistence
type BalanceRepository struct {
	db *database.DB
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *database.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// Get gets the balance row for an employee month. Returns nil when no row
// exists; the aggregator treats that as a zero previous balance.
func (r *BalanceRepository) Get(ctx context.Context, employeeID string, year int, month time.Month) (*MonthlyBalance, error) {
	var bal MonthlyBalance

	query := `
		SELECT id, employee_id, year, month, target_hours, actual_hours,
		       surcharge_hours, planned_hours, balance, previous_balance,
		       created_at, updated_at
		FROM monthly_balances
		WHERE employee_id = $1 AND year = $2 AND month = $3
	`
	err := r.db.GetContext(ctx, &bal, query, employeeID, year, int(month))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &bal, nil
}

// Upsert writes the balance row keyed by (employee_id, year, month),
// last write wins.
func (r *BalanceRepository) Upsert(ctx context.Context, bal *MonthlyBalance) error {
	if bal.ID == "" {
		bal.ID = uuid.New().String()
	}

	query := `
		INSERT INTO monthly_balances (
			id, employee_id, year, month, target_hours, actual_hours,
			surcharge_hours, planned_hours, balance, previous_balance
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (employee_id, year, month) DO UPDATE SET
			target_hours = EXCLUDED.target_hours,
			actual_hours = EXCLUDED.actual_hours,
			surcharge_hours = EXCLUDED.surcharge_hours,
			planned_hours = EXCLUDED.planned_hours,
			balance = EXCLUDED.balance,
			previous_balance = EXCLUDED.previous_balance,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		bal.ID, bal.EmployeeID, bal.Year, bal.Month, bal.TargetHours, bal.ActualHours,
		bal.SurchargeHours, bal.PlannedHours, bal.Balance, bal.PreviousBalance,
	).Scan(&bal.ID, &bal.CreatedAt, &bal.UpdatedAt)
}

// ListForEmployeeYear gets all balance rows of an employee's year ordered
// by month.
func (r *BalanceRepository) ListForEmployeeYear(ctx context.Context, employeeID string, year int) ([]*MonthlyBalance, error) {
	var balances []*MonthlyBalance

	query := `
		SELECT id, employee_id, year, month, target_hours, actual_hours,
		       surcharge_hours, planned_hours, balance, previous_balance,
		       created_at, updated_at
		FROM monthly_balances
		WHERE employee_id = $1 AND year = $2
		ORDER BY month
	`
	if err := r.db.SelectContext(ctx, &balances, query, employeeID, year); err != nil {
		return nil, err
	}

	return balances, nil
}

// CheckEmployeeExists verifies an employee exists
func (r *BalanceRepository) CheckEmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, employeeID); err != nil {
		return false, err
	}

	return exists, nil
}
