package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/spitex-domus/domus-backend/internal/worktime"
	"github.com/spitex-domus/domus-backend/pkg/database"
	"github.com/spitex-domus/domus-backend/pkg/errors"
)

// TimeEntry represents one booked time block of an employee's day. EntryDate
// is the booking day; for night-shift components it may differ from the
// calendar day of StartTime.
type TimeEntry struct {
	ID                       string     `db:"id" json:"id"`
	EmployeeID               string     `db:"employee_id" json:"employee_id"`
	EntryDate                time.Time  `db:"entry_date" json:"entry_date"`
	StartTime                time.Time  `db:"start_time" json:"start_time"`
	EndTime                  *time.Time `db:"end_time" json:"end_time,omitempty"`
	BreakMinutes             int        `db:"break_minutes" json:"break_minutes"`
	EntryType                string     `db:"entry_type" json:"entry_type"`
	SleepInterruptionMinutes int        `db:"sleep_interruption_minutes" json:"sleep_interruption_minutes"`
	SurchargeHours           float64    `db:"surcharge_hours" json:"surcharge_hours"`
	CreatedAt                time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time  `db:"updated_at" json:"updated_at"`
}

// Worktime converts the stored row into the view the pure work-time
// functions operate on.
func (e *TimeEntry) Worktime() worktime.Entry {
	return worktime.Entry{
		ID:        e.ID,
		Date:      e.EntryDate,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Type:      worktime.EntryType(e.EntryType),
	}
}

// TimeEntryRepository handles time entry persistence
type TimeEntryRepository struct {
	db *database.DB
}

// NewTimeEntryRepository creates a new time entry repository
func NewTimeEntryRepository(db *database.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

// Create creates a new time entry
func (r *TimeEntryRepository) Create(ctx context.Context, entry *TimeEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO time_entries (
			id, employee_id, entry_date, start_time, end_time,
			break_minutes, entry_type, sleep_interruption_minutes, surcharge_hours
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		entry.ID, entry.EmployeeID, entry.EntryDate, entry.StartTime, entry.EndTime,
		entry.BreakMinutes, entry.EntryType, entry.SleepInterruptionMinutes, entry.SurchargeHours,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
}

// GetByID gets a time entry by ID
func (r *TimeEntryRepository) GetByID(ctx context.Context, id string) (*TimeEntry, error) {
	var entry TimeEntry

	query := `
		SELECT id, employee_id, entry_date, start_time, end_time,
		       break_minutes, entry_type, sleep_interruption_minutes, surcharge_hours,
		       created_at, updated_at
		FROM time_entries
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &entry, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("time_entry")
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// GetOpenEntry gets the running (no end time) entry for an employee.
// Returns nil when the employee has no open entry.
func (r *TimeEntryRepository) GetOpenEntry(ctx context.Context, employeeID string) (*TimeEntry, error) {
	var entry TimeEntry

	query := `
		SELECT id, employee_id, entry_date, start_time, end_time,
		       break_minutes, entry_type, sleep_interruption_minutes, surcharge_hours,
		       created_at, updated_at
		FROM time_entries
		WHERE employee_id = $1 AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &entry, query, employeeID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// Update updates a time entry
func (r *TimeEntryRepository) Update(ctx context.Context, entry *TimeEntry) error {
	query := `
		UPDATE time_entries SET
			entry_date = $2, start_time = $3, end_time = $4, break_minutes = $5,
			entry_type = $6, sleep_interruption_minutes = $7, surcharge_hours = $8,
			updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.EntryDate, entry.StartTime, entry.EndTime, entry.BreakMinutes,
		entry.EntryType, entry.SleepInterruptionMinutes, entry.SurchargeHours,
	)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("time_entry")
	}

	return nil
}

// Delete hard-deletes a time entry. There is no soft delete; dependent
// aggregates are recomputed by the caller.
func (r *TimeEntryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("time_entry")
	}

	return nil
}

// DeleteMany hard-deletes a set of entries in one transaction. Used by the
// night-shift delete flow so a shift never loses only some of its
// components.
func (r *TimeEntryRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := sqlx.In(`DELETE FROM time_entries WHERE id IN (?)`, ids)
		if err != nil {
			return err
		}
		query = tx.Rebind(query)

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			return errors.NotFound("time_entry")
		}

		return nil
	})
}

// ListForEmployeeRange gets entries for an employee whose booking day falls
// within [startDate, endDate], ordered by day and start time.
func (r *TimeEntryRepository) ListForEmployeeRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]*TimeEntry, error) {
	var entries []*TimeEntry

	query := `
		SELECT id, employee_id, entry_date, start_time, end_time,
		       break_minutes, entry_type, sleep_interruption_minutes, surcharge_hours,
		       created_at, updated_at
		FROM time_entries
		WHERE employee_id = $1 AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date, start_time
	`
	if err := r.db.SelectContext(ctx, &entries, query, employeeID, startDate, endDate); err != nil {
		return nil, err
	}

	return entries, nil
}

// ListForEmployeeMonth gets entries for an employee's booking month
func (r *TimeEntryRepository) ListForEmployeeMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]*TimeEntry, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return r.ListForEmployeeRange(ctx, employeeID, start, end)
}

// ListForEmployeeYear gets all entries booked in a calendar year
func (r *TimeEntryRepository) ListForEmployeeYear(ctx context.Context, employeeID string, year int) ([]*TimeEntry, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return r.ListForEmployeeRange(ctx, employeeID, start, end)
}

// CheckEmployeeExists verifies an employee exists
func (r *TimeEntryRepository) CheckEmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, employeeID); err != nil {
		return false, fmt.Errorf("failed to check employee existence: %w", err)
	}

	return exists, nil
}
