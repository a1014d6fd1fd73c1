package service

import (
	"context"
	"time"

	balanceservice "github.com/spitex-domus/domus-backend/internal/balance/service"
	"github.com/spitex-domus/domus-backend/internal/schedule/repository"
	"github.com/spitex-domus/domus-backend/internal/worktime"
	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/spitex-domus/domus-backend/pkg/logger"
)

// ScheduleService manages planned shifts and the service catalogue.
// Schedule mutations are restricted to dates that are still open for
// planning corrections.
type ScheduleService struct {
	repo     *repository.ScheduleRepository
	services *repository.ServiceRepository
	balances *balanceservice.BalanceService
	logger   *logger.Logger
	now      func() time.Time
}

// NewScheduleService creates a new schedule service
func NewScheduleService(repo *repository.ScheduleRepository, services *repository.ServiceRepository, balances *balanceservice.BalanceService, log *logger.Logger) *ScheduleService {
	return &ScheduleService{
		repo:     repo,
		services: services,
		balances: balances,
		logger:   log,
		now:      time.Now,
	}
}

// ====== Schedule entries ======

// Get returns a single schedule entry by ID
func (s *ScheduleService) Get(ctx context.Context, id string) (*repository.ScheduleEntry, error) {
	return s.repo.GetByID(ctx, id)
}

// ListMonth returns all planned shifts of the given month for an employee
func (s *ScheduleService) ListMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]*repository.ScheduleEntry, error) {
	return s.repo.ListForEmployeeMonth(ctx, employeeID, year, month)
}

// ListRange returns all planned shifts inside [startDate, endDate]
func (s *ScheduleService) ListRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]*repository.ScheduleEntry, error) {
	return s.repo.ListForEmployeeRange(ctx, employeeID, startDate, endDate)
}

// Create stores a new planned shift. The assigned service must exist
// and the date must still be open for planning.
func (s *ScheduleService) Create(ctx context.Context, entry *repository.ScheduleEntry) (*repository.ScheduleEntry, error) {
	if !worktime.ScheduleDateEditable(entry.EntryDate, s.now()) {
		return nil, errors.DateLocked("the planning period for this date is closed")
	}

	svc, err := s.services.GetByID(ctx, entry.ServiceID)
	if err != nil {
		return nil, err
	}
	if !entry.EndTime.After(entry.StartTime) {
		return nil, errors.BadRequest("end time must be after start time")
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("entry_id", entry.ID).
		Str("employee_id", entry.EmployeeID).
		Str("service", svc.Name).
		Time("entry_date", entry.EntryDate).
		Msg("Schedule entry created")

	s.afterWrite(ctx, entry.EmployeeID, entry.EntryDate, svc.Name)
	return entry, nil
}

// Update stores changes to a planned shift. Both the old and the new
// month are recomputed when the shift moves.
func (s *ScheduleService) Update(ctx context.Context, entry *repository.ScheduleEntry) (*repository.ScheduleEntry, error) {
	existing, err := s.repo.GetByID(ctx, entry.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !worktime.ScheduleDateEditable(existing.EntryDate, now) {
		return nil, errors.DateLocked("the planning period for this date is closed")
	}
	if !worktime.ScheduleDateEditable(entry.EntryDate, now) {
		return nil, errors.DateLocked("the planning period for this date is closed")
	}

	svc, err := s.services.GetByID(ctx, entry.ServiceID)
	if err != nil {
		return nil, err
	}
	if !entry.EndTime.After(entry.StartTime) {
		return nil, errors.BadRequest("end time must be after start time")
	}

	entry.EmployeeID = existing.EmployeeID
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("entry_id", entry.ID).
		Str("employee_id", entry.EmployeeID).
		Msg("Schedule entry updated")

	s.afterWrite(ctx, entry.EmployeeID, existing.EntryDate, svc.Name)
	if !worktime.SameDay(existing.EntryDate, entry.EntryDate) {
		s.afterWrite(ctx, entry.EmployeeID, entry.EntryDate, svc.Name)
	}
	// The old assignment may have been a vacation that was swapped out.
	if existing.ServiceName != nil && *existing.ServiceName != svc.Name {
		s.afterWrite(ctx, entry.EmployeeID, existing.EntryDate, *existing.ServiceName)
	}
	return entry, nil
}

// Delete removes a planned shift
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !worktime.ScheduleDateEditable(existing.EntryDate, s.now()) {
		return errors.DateLocked("the planning period for this date is closed")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	serviceName := ""
	if existing.ServiceName != nil {
		serviceName = *existing.ServiceName
	}
	s.afterWrite(ctx, existing.EmployeeID, existing.EntryDate, serviceName)
	return nil
}

// afterWrite triggers the best effort recomputations that follow a
// schedule change. Vacation bookkeeping only depends on vacation shifts.
func (s *ScheduleService) afterWrite(ctx context.Context, employeeID string, date time.Time, serviceName string) {
	s.balances.RecomputeAfterWrite(ctx, employeeID, date)
	if serviceName == repository.ServiceVacation {
		if err := s.balances.RecomputeVacation(ctx, employeeID, date.Year()); err != nil {
			s.logger.Error().Err(err).
				Str("employee_id", employeeID).
				Int("year", date.Year()).
				Msg("Failed to recompute vacation balance")
		}
	}
}

// ====== Service catalogue ======

// ListServices returns the service catalogue
func (s *ScheduleService) ListServices(ctx context.Context) ([]*repository.Service, error) {
	return s.services.List(ctx)
}

// GetService returns a catalogue service by ID
func (s *ScheduleService) GetService(ctx context.Context, id string) (*repository.Service, error) {
	return s.services.GetByID(ctx, id)
}

// CreateService adds a service to the catalogue
func (s *ScheduleService) CreateService(ctx context.Context, svc *repository.Service) (*repository.Service, error) {
	if svc.DurationMinutes <= 0 {
		return nil, errors.BadRequest("service duration must be positive")
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.logger.Info().Str("service_id", svc.ID).Str("name", svc.Name).Msg("Service created")
	return svc, nil
}

// UpdateService changes a catalogue service
func (s *ScheduleService) UpdateService(ctx context.Context, svc *repository.Service) (*repository.Service, error) {
	if svc.DurationMinutes <= 0 {
		return nil, errors.BadRequest("service duration must be positive")
	}
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// DeleteService removes a catalogue service
func (s *ScheduleService) DeleteService(ctx context.Context, id string) error {
	return s.services.Delete(ctx, id)
}
