package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/spitex-domus/domus-backend/pkg/database"
	"github.com/spitex-domus/domus-backend/pkg/errors"
)

// Special service names whose duration is pro-rated by pensum rather than
// taken from the planned instance's start and end times.
const (
	ServiceVacation = "FE" // Ferien
	ServiceSick     = "K"  // Krank
	ServiceTraining = "WB" // Weiterbildung
)

// Service is a shift-type definition selectable in the schedule
type Service struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Color           string    `db:"color" json:"color"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// PensumProrated reports whether the service's credited duration depends on
// the employee's pensum.
func (s *Service) PensumProrated() bool {
	switch s.Name {
	case ServiceVacation, ServiceSick, ServiceTraining:
		return true
	}
	return false
}

// ServiceRepository handles shift-type persistence
type ServiceRepository struct {
	db *database.DB
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *database.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Create creates a new service
func (r *ServiceRepository) Create(ctx context.Context, svc *Service) error {
	if svc.ID == "" {
		svc.ID = uuid.New().String()
	}

	query := `
		INSERT INTO services (id, name, duration_minutes, color)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		svc.ID, svc.Name, svc.DurationMinutes, svc.Color,
	).Scan(&svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetByID gets a service by ID
func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*Service, error) {
	var svc Service

	query := `
		SELECT id, name, duration_minutes, color, created_at, updated_at
		FROM services
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &svc, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("service")
	}
	if err != nil {
		return nil, err
	}

	return &svc, nil
}

// List lists all services ordered by name
func (r *ServiceRepository) List(ctx context.Context) ([]*Service, error) {
	var services []*Service

	query := `
		SELECT id, name, duration_minutes, color, created_at, updated_at
		FROM services
		ORDER BY name
	`
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, err
	}

	return services, nil
}

// Update updates a service
func (r *ServiceRepository) Update(ctx context.Context, svc *Service) error {
	query := `
		UPDATE services SET name = $2, duration_minutes = $3, color = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, svc.ID, svc.Name, svc.DurationMinutes, svc.Color)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("service")
	}

	return nil
}

// Delete hard-deletes a service
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("service")
	}

	return nil
}
