package service

import (
	"context"
	"time"

	"github.com/spitex-domus/domus-backend/internal/balance/repository"
	employeerepo "github.com/spitex-domus/domus-backend/internal/employee/repository"
	schedulerepo "github.com/spitex-domus/domus-backend/internal/schedule/repository"
	timeentryrepo "github.com/spitex-domus/domus-backend/internal/timeentry/repository"
	"github.com/spitex-domus/domus-backend/internal/worktime"
	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/spitex-domus/domus-backend/pkg/logger"
)

// BalanceService recomputes and serves the monthly and vacation balances.
// The recompute is a read-modify-upsert keyed by (employee, year, month):
// running it twice over unchanged inputs yields the same row.
type BalanceService struct {
	balanceRepo   *repository.BalanceRepository
	vacationRepo  *repository.VacationRepository
	employeeRepo  *employeerepo.EmployeeRepository
	timeEntryRepo *timeentryrepo.TimeEntryRepository
	scheduleRepo  *schedulerepo.ScheduleRepository
	logger        *logger.Logger
}

// NewBalanceService creates a new balance service
func NewBalanceService(
	balanceRepo *repository.BalanceRepository,
	vacationRepo *repository.VacationRepository,
	employeeRepo *employeerepo.EmployeeRepository,
	timeEntryRepo *timeentryrepo.TimeEntryRepository,
	scheduleRepo *schedulerepo.ScheduleRepository,
	log *logger.Logger,
) *BalanceService {
	return &BalanceService{
		balanceRepo:   balanceRepo,
		vacationRepo:  vacationRepo,
		employeeRepo:  employeeRepo,
		timeEntryRepo: timeEntryRepo,
		scheduleRepo:  scheduleRepo,
		logger:        log,
	}
}

// Recompute rebuilds the monthly balance row for an employee month from the
// raw time entries and schedule entries and upserts it. The prior month's
// stored balance is carried forward as previous_balance; a missing prior
// row counts as zero, there is no recursive backfill.
func (s *BalanceService) Recompute(ctx context.Context, employeeID string, year int, month time.Month) (*repository.MonthlyBalance, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	entries, err := s.timeEntryRepo.ListForEmployeeMonth(ctx, employeeID, year, month)
	if err != nil {
		return nil, err
	}

	scheduled, err := s.scheduleRepo.ListForEmployeeMonth(ctx, employeeID, year, month)
	if err != nil {
		return nil, err
	}

	prevYear, prevMonth := year, month-1
	if month == time.January {
		prevYear, prevMonth = year-1, time.December
	}
	prev, err := s.balanceRepo.Get(ctx, employeeID, prevYear, prevMonth)
	if err != nil {
		return nil, err
	}

	previous := 0.0
	if prev != nil {
		previous = prev.Balance
	}

	totals := SumWorkedHours(entries)
	planned := SumPlannedHours(scheduled, emp.Pensum)
	target := worktime.MonthlyTargetHours(emp.WeeklyHours, emp.Pensum, year, month)

	bal := &repository.MonthlyBalance{
		EmployeeID:      employeeID,
		Year:            year,
		Month:           int(month),
		TargetHours:     target,
		ActualHours:     totals.ActualHours,
		SurchargeHours:  totals.SurchargeHours,
		PlannedHours:    planned,
		PreviousBalance: previous,
		Balance:         ComputeBalance(totals.ActualHours, totals.SurchargeHours, target, previous),
	}

	if err := s.balanceRepo.Upsert(ctx, bal); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("employee_id", employeeID).
		Int("year", year).
		Int("month", int(month)).
		Float64("balance", bal.Balance).
		Msg("monthly balance recomputed")

	return bal, nil
}

// RecomputeAfterWrite recomputes the balance for the month a mutation
// touched. A failure here never rolls back the primary write; it is logged
// and the balance stays best-effort until the next recompute.
func (s *BalanceService) RecomputeAfterWrite(ctx context.Context, employeeID string, date time.Time) {
	if _, err := s.Recompute(ctx, employeeID, date.Year(), date.Month()); err != nil {
		s.logger.Error().Err(err).
			Str("employee_id", employeeID).
			Int("year", date.Year()).
			Int("month", int(date.Month())).
			Msg("balance recompute after write failed")
	}
}

// GetYear returns the stored balance rows of an employee's year
func (s *BalanceService) GetYear(ctx context.Context, employeeID string, year int) ([]*repository.MonthlyBalance, error) {
	exists, err := s.balanceRepo.CheckEmployeeExists(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NotFound("employee")
	}

	return s.balanceRepo.ListForEmployeeYear(ctx, employeeID, year)
}

// GetVacation returns the vacation balance row for an employee year, or a
// zero-valued row when none exists yet.
func (s *BalanceService) GetVacation(ctx context.Context, employeeID string, year int) (*repository.VacationBalance, error) {
	bal, err := s.vacationRepo.Get(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		return &repository.VacationBalance{
			EmployeeID: employeeID,
			Year:       year,
			StartDate:  time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		}, nil
	}

	return bal, nil
}

// SetVacation upserts the vacation balance totals for an employee year
// (admin operation).
func (s *BalanceService) SetVacation(ctx context.Context, bal *repository.VacationBalance) error {
	if bal.StartDate.IsZero() {
		bal.StartDate = time.Date(bal.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return s.vacationRepo.Upsert(ctx, bal)
}

// RecomputeVacation recounts the used vacation days of a year from the
// FE schedule entries and upserts the vacation balance. Triggered when a
// vacation-type schedule entry is created or deleted.
func (s *BalanceService) RecomputeVacation(ctx context.Context, employeeID string, year int) error {
	used, err := s.scheduleRepo.CountServiceEntriesForYear(ctx, employeeID, schedulerepo.ServiceVacation, year)
	if err != nil {
		return err
	}

	bal, err := s.vacationRepo.Get(ctx, employeeID, year)
	if err != nil {
		return err
	}
	if bal == nil {
		bal = &repository.VacationBalance{
			EmployeeID: employeeID,
			Year:       year,
			StartDate:  time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	bal.UsedDays = float64(used)

	if err := s.vacationRepo.Upsert(ctx, bal); err != nil {
		return err
	}

	s.logger.Info().
		Str("employee_id", employeeID).
		Int("year", year).
		Float64("used_days", bal.UsedDays).
		Msg("vacation balance recomputed")

	return nil
}
