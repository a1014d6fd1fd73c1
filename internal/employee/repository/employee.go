package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/spitex-domus/domus-backend/pkg/database"
	"github.com/spitex-domus/domus-backend/pkg/errors"
)

// Roles
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// Employment types
const (
	EmploymentMonthlySalary = "MONTHLY_SALARY"
	EmploymentHourlyWage    = "HOURLY_WAGE"
)

// Employee represents a staff member. Pensum is the employment percentage
// (0-100) and scales target hours as well as vacation/sick durations.
type Employee struct {
	ID             string    `db:"id" json:"id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Role           string    `db:"role" json:"role"`
	EmploymentType string    `db:"employment_type" json:"employment_type"`
	Pensum         float64   `db:"pensum" json:"pensum"`
	WeeklyHours    float64   `db:"weekly_hours" json:"weekly_hours"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// EmployeeRepository handles employee persistence
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create creates a new employee
func (r *EmployeeRepository) Create(ctx context.Context, emp *Employee) error {
	if emp.ID == "" {
		emp.ID = uuid.New().String()
	}

	query := `
		INSERT INTO employees (
			id, first_name, last_name, email, password_hash, role,
			employment_type, pensum, weekly_hours, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.PasswordHash, emp.Role,
		emp.EmploymentType, emp.Pensum, emp.WeeklyHours, emp.Active,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetByID gets an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*Employee, error) {
	var emp Employee

	query := `
		SELECT id, first_name, last_name, email, password_hash, role,
		       employment_type, pensum, weekly_hours, active, created_at, updated_at
		FROM employees
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &emp, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("employee")
	}
	if err != nil {
		return nil, err
	}

	return &emp, nil
}

// GetByEmail gets an employee by email
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	var emp Employee

	query := `
		SELECT id, first_name, last_name, email, password_hash, role,
		       employment_type, pensum, weekly_hours, active, created_at, updated_at
		FROM employees
		WHERE email = $1
	`
	err := r.db.GetContext(ctx, &emp, query, email)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("employee")
	}
	if err != nil {
		return nil, err
	}

	return &emp, nil
}

// List lists employees, optionally only active ones
func (r *EmployeeRepository) List(ctx context.Context, activeOnly bool) ([]*Employee, error) {
	var employees []*Employee

	query := `
		SELECT id, first_name, last_name, email, password_hash, role,
		       employment_type, pensum, weekly_hours, active, created_at, updated_at
		FROM employees
	`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY last_name, first_name`

	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, err
	}

	return employees, nil
}

// Update updates an employee
func (r *EmployeeRepository) Update(ctx context.Context, emp *Employee) error {
	query := `
		UPDATE employees SET
			first_name = $2, last_name = $3, email = $4, role = $5,
			employment_type = $6, pensum = $7, weekly_hours = $8, active = $9,
			updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.Role,
		emp.EmploymentType, emp.Pensum, emp.WeeklyHours, emp.Active,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("employee")
	}

	return nil
}

// UpdatePassword sets a new password hash for an employee
func (r *EmployeeRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE employees SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("employee")
	}

	return nil
}

// Delete hard-deletes an employee
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("employee")
	}

	return nil
}
