package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/spitex-domus/domus-backend/pkg/database"
	"github.com/spitex-domus/domus-backend/pkg/errors"
)

// ScheduleEntry is one planned shift instance for an employee
type ScheduleEntry struct {
	ID         string    `db:"id" json:"id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	ServiceID  string    `db:"service_id" json:"service_id"`
	EntryDate  time.Time `db:"entry_date" json:"entry_date"`
	StartTime  time.Time `db:"start_time" json:"start_time"`
	EndTime    time.Time `db:"end_time" json:"end_time"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields (populated by specific queries)
	ServiceName     *string `db:"service_name" json:"service_name,omitempty"`
	ServiceDuration *int    `db:"service_duration" json:"service_duration,omitempty"`
}

// ScheduleRepository handles schedule entry persistence
type ScheduleRepository struct {
	db *database.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create creates a new schedule entry
func (r *ScheduleRepository) Create(ctx context.Context, entry *ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO schedule_entries (id, employee_id, service_id, entry_date, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		entry.ID, entry.EmployeeID, entry.ServiceID, entry.EntryDate, entry.StartTime, entry.EndTime,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetByID gets a schedule entry by ID, including its service name and duration
func (r *ScheduleRepository) GetByID(ctx context.Context, id string) (*ScheduleEntry, error) {
	var entry ScheduleEntry

	query := `
		SELECT se.id, se.employee_id, se.service_id, se.entry_date, se.start_time, se.end_time,
		       se.created_at, se.updated_at,
		       s.name as service_name, s.duration_minutes as service_duration
		FROM schedule_entries se
		LEFT JOIN services s ON se.service_id = s.id
		WHERE se.id = $1
	`
	err := r.db.GetContext(ctx, &entry, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("schedule_entry")
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// Update updates a schedule entry
func (r *ScheduleRepository) Update(ctx context.Context, entry *ScheduleEntry) error {
	query := `
		UPDATE schedule_entries SET
			employee_id = $2, service_id = $3, entry_date = $4, start_time = $5, end_time = $6,
			updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.EmployeeID, entry.ServiceID, entry.EntryDate, entry.StartTime, entry.EndTime,
	)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("schedule_entry")
	}

	return nil
}

// Delete hard-deletes a schedule entry
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("schedule_entry")
	}

	return nil
}

// ListForEmployeeRange gets schedule entries within a date range, with
// service names and durations joined in.
func (r *ScheduleRepository) ListForEmployeeRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]*ScheduleEntry, error) {
	var entries []*ScheduleEntry

	query := `
		SELECT se.id, se.employee_id, se.service_id, se.entry_date, se.start_time, se.end_time,
		       se.created_at, se.updated_at,
		       s.name as service_name, s.duration_minutes as service_duration
		FROM schedule_entries se
		LEFT JOIN services s ON se.service_id = s.id
		WHERE se.employee_id = $1 AND se.entry_date >= $2 AND se.entry_date <= $3
		ORDER BY se.entry_date, se.start_time
	`
	if err := r.db.SelectContext(ctx, &entries, query, employeeID, startDate, endDate); err != nil {
		return nil, err
	}

	return entries, nil
}

// ListForEmployeeMonth gets schedule entries for a booking month
func (r *ScheduleRepository) ListForEmployeeMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]*ScheduleEntry, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return r.ListForEmployeeRange(ctx, employeeID, start, end)
}

// CountServiceEntriesForYear counts an employee's schedule entries for one
// service name in a calendar year. Used to recompute used vacation days.
func (r *ScheduleRepository) CountServiceEntriesForYear(ctx context.Context, employeeID, serviceName string, year int) (int, error) {
	var count int

	query := `
		SELECT COUNT(*)
		FROM schedule_entries se
		JOIN services s ON se.service_id = s.id
		WHERE se.employee_id = $1 AND s.name = $2
			AND se.entry_date >= $3 AND se.entry_date <= $4
	`
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	if err := r.db.GetContext(ctx, &count, query, employeeID, serviceName, start, end); err != nil {
		return 0, err
	}

	return count, nil
}
