package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/spitex-domus/domus-backend/pkg/database"
)

// VacationBalance is the per-employee, per-year vacation account
type VacationBalance struct {
	ID         string    `db:"id" json:"id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	Year       int       `db:"year" json:"year"`
	TotalDays  float64   `db:"total_days" json:"total_days"`
	UsedDays   float64   `db:"used_days" json:"used_days"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// RemainingDays returns the vacation days still available
func (v *VacationBalance) RemainingDays() float64 {
	return v.TotalDays - v.UsedDays
}

// VacationRepository handles vacation balance persistence
type VacationRepository struct {
	db *database.DB
}

// NewVacationRepository creates a new vacation repository
func NewVacationRepository(db *database.DB) *VacationRepository {
	return &VacationRepository{db: db}
}

// Get gets the vacation balance for an employee year. Returns nil when no
// row exists.
func (r *VacationRepository) Get(ctx context.Context, employeeID string, year int) (*VacationBalance, error) {
	var bal VacationBalance

	query := `
		SELECT id, employee_id, year, total_days, used_days, start_date,
		       created_at, updated_at
		FROM vacation_balances
		WHERE employee_id = $1 AND year = $2
	`
	err := r.db.GetContext(ctx, &bal, query, employeeID, year)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &bal, nil
}

// Upsert writes the vacation balance keyed by (employee_id, year),
// last write wins.
func (r *VacationRepository) Upsert(ctx context.Context, bal *VacationBalance) error {
	if bal.ID == "" {
		bal.ID = uuid.New().String()
	}

	query := `
		INSERT INTO vacation_balances (id, employee_id, year, total_days, used_days, start_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, year) DO UPDATE SET
			total_days = EXCLUDED.total_days,
			used_days = EXCLUDED.used_days,
			start_date = EXCLUDED.start_date,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		bal.ID, bal.EmployeeID, bal.Year, bal.TotalDays, bal.UsedDays, bal.StartDate,
	).Scan(&bal.ID, &bal.CreatedAt, &bal.UpdatedAt)
}
