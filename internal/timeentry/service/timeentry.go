package service

import (
	"context"
	"fmt"
	"time"

	balanceservice "github.com/spitex-domus/domus-backend/internal/balance/service"
	"github.com/spitex-domus/domus-backend/internal/timeentry/repository"
	"github.com/spitex-domus/domus-backend/internal/worktime"
	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/spitex-domus/domus-backend/pkg/logger"
)

// TimeEntryService implements time entry booking rules: block validation,
// overlap detection, surcharge computation and night shift cascades.
type TimeEntryService struct {
	repo     *repository.TimeEntryRepository
	balances *balanceservice.BalanceService
	logger   *logger.Logger
	now      func() time.Time
}

// NewTimeEntryService creates a new time entry service
func NewTimeEntryService(repo *repository.TimeEntryRepository, balances *balanceservice.BalanceService, log *logger.Logger) *TimeEntryService {
	return &TimeEntryService{
		repo:     repo,
		balances: balances,
		logger:   log,
		now:      time.Now,
	}
}

// ====== Queries ======

// Get returns a single time entry by ID
func (s *TimeEntryService) Get(ctx context.Context, id string) (*repository.TimeEntry, error) {
	return s.repo.GetByID(ctx, id)
}

// ListMonth returns all entries booked in the given month for an employee
func (s *TimeEntryService) ListMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]*repository.TimeEntry, error) {
	return s.repo.ListForEmployeeMonth(ctx, employeeID, year, month)
}

// ListRange returns all entries booked inside [startDate, endDate]
func (s *TimeEntryService) ListRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]*repository.TimeEntry, error) {
	return s.repo.ListForEmployeeRange(ctx, employeeID, startDate, endDate)
}

// GetOpen returns the employee's currently running entry, or nil
func (s *TimeEntryService) GetOpen(ctx context.Context, employeeID string) (*repository.TimeEntry, error) {
	return s.repo.GetOpenEntry(ctx, employeeID)
}

// ====== Mutations ======

// Create validates and stores a new time entry. An entry without an end
// time starts a running timer; at most one open entry per employee is
// allowed. Closed entries are checked against block length and overlap
// rules before they are stored.
func (s *TimeEntryService) Create(ctx context.Context, entry *repository.TimeEntry, isAdmin bool) (*repository.TimeEntry, error) {
	exists, err := s.repo.CheckEmployeeExists(ctx, entry.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NotFound("employee")
	}

	if !worktime.DateEditableForEmployee(entry.EntryDate, s.now(), isAdmin) {
		return nil, errors.DateLocked("the booking period for this date is closed")
	}

	if err := s.validateEntry(ctx, entry, ""); err != nil {
		return nil, err
	}

	entry.SurchargeHours = s.surchargeFor(entry)

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("entry_id", entry.ID).
		Str("employee_id", entry.EmployeeID).
		Str("entry_type", entry.EntryType).
		Time("entry_date", entry.EntryDate).
		Msg("Time entry created")

	s.balances.RecomputeAfterWrite(ctx, entry.EmployeeID, entry.EntryDate)
	return entry, nil
}

// Stop closes the employee's open entry at the given end time.
func (s *TimeEntryService) Stop(ctx context.Context, employeeID string, end time.Time) (*repository.TimeEntry, error) {
	open, err := s.repo.GetOpenEntry(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, errors.NotFound("open time entry")
	}

	if !end.After(open.StartTime) {
		return nil, errors.BadRequest("end time must be after start time")
	}
	if open.EntryType == string(worktime.EntryWork) && worktime.ViolatesMaxWorkBlock(open.StartTime, end) {
		return nil, errors.BadRequest(fmt.Sprintf("work block exceeds %d hours, split the entry", worktime.MaxWorkBlockHours))
	}

	open.EndTime = &end
	open.SurchargeHours = s.surchargeFor(open)

	if err := s.repo.Update(ctx, open); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("entry_id", open.ID).
		Str("employee_id", employeeID).
		Msg("Open time entry stopped")

	s.balances.RecomputeAfterWrite(ctx, employeeID, open.EntryDate)
	return open, nil
}

// Update validates and stores changes to an existing entry. Both the old
// and the new booking month are recomputed when the entry moves.
func (s *TimeEntryService) Update(ctx context.Context, entry *repository.TimeEntry, isAdmin bool) (*repository.TimeEntry, error) {
	existing, err := s.repo.GetByID(ctx, entry.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !worktime.DateEditableForEmployee(existing.EntryDate, now, isAdmin) {
		return nil, errors.DateLocked("the booking period for this date is closed")
	}
	if !worktime.DateEditableForEmployee(entry.EntryDate, now, isAdmin) {
		return nil, errors.DateLocked("the booking period for this date is closed")
	}

	entry.EmployeeID = existing.EmployeeID
	if err := s.validateEntry(ctx, entry, entry.ID); err != nil {
		return nil, err
	}

	entry.SurchargeHours = s.surchargeFor(entry)

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("entry_id", entry.ID).
		Str("employee_id", entry.EmployeeID).
		Msg("Time entry updated")

	s.balances.RecomputeAfterWrite(ctx, entry.EmployeeID, existing.EntryDate)
	if !worktime.SameDay(existing.EntryDate, entry.EntryDate) {
		s.balances.RecomputeAfterWrite(ctx, entry.EmployeeID, entry.EntryDate)
	}
	return entry, nil
}

// Delete removes a time entry. When the entry is part of a night shift,
// all components of the same shift are removed together so no orphaned
// sleep or carry over blocks remain. Returns the IDs that were deleted.
func (s *TimeEntryService) Delete(ctx context.Context, id string, isAdmin bool) ([]string, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !worktime.DateEditableForEmployee(entry.EntryDate, s.now(), isAdmin) {
		return nil, errors.DateLocked("the booking period for this date is closed")
	}

	clicked := entry.Worktime()
	if !worktime.IsNightShiftComponent(clicked) {
		if err := s.repo.Delete(ctx, id); err != nil {
			return nil, err
		}
		s.balances.RecomputeAfterWrite(ctx, entry.EmployeeID, entry.EntryDate)
		return []string{id}, nil
	}

	bookingDate, _ := worktime.BookingDate(clicked)
	neighbors, err := s.repo.ListForEmployeeRange(ctx, entry.EmployeeID,
		bookingDate.AddDate(0, 0, -1), bookingDate.AddDate(0, 0, 2))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*repository.TimeEntry, len(neighbors))
	candidates := make([]worktime.Entry, 0, len(neighbors))
	for _, n := range neighbors {
		byID[n.ID] = n
		candidates = append(candidates, n.Worktime())
	}

	ids := worktime.RelatedNightShiftIDs(clicked, candidates)
	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("entry_id", id).
		Str("employee_id", entry.EmployeeID).
		Int("deleted_count", len(ids)).
		Msg("Night shift components deleted")

	for _, month := range affectedMonths(ids, byID, entry) {
		s.balances.RecomputeAfterWrite(ctx, entry.EmployeeID, month)
	}
	return ids, nil
}

// ====== Validation ======

// validateEntry runs the booking rules shared by create and update.
// skipID excludes the entry itself from the overlap scan on updates.
func (s *TimeEntryService) validateEntry(ctx context.Context, entry *repository.TimeEntry, skipID string) error {
	if entry.EntryType == string(worktime.EntrySleepInterruption) {
		if entry.SleepInterruptionMinutes <= 0 {
			return errors.BadRequest("sleep interruption requires a positive duration in minutes")
		}
		return nil
	}

	if entry.EndTime == nil {
		open, err := s.repo.GetOpenEntry(ctx, entry.EmployeeID)
		if err != nil {
			return err
		}
		if open != nil && open.ID != skipID {
			return errors.Conflict("an open time entry already exists, stop it first")
		}
		return nil
	}

	if !entry.EndTime.After(entry.StartTime) {
		return errors.BadRequest("end time must be after start time")
	}

	if entry.EntryType == string(worktime.EntryWork) {
		if worktime.ViolatesMaxWorkBlock(entry.StartTime, *entry.EndTime) {
			return errors.BadRequest(fmt.Sprintf("work block exceeds %d hours, split the entry", worktime.MaxWorkBlockHours))
		}
		if err := s.checkOverlap(ctx, entry, skipID); err != nil {
			return err
		}
	}
	return nil
}

// checkOverlap scans work blocks booked around the entry's date and
// rejects intersecting [start, end) intervals. The evening and carry
// over halves of a night shift intersect on the booking day only through
// the sleep block between them, so recognised night shift pairs are not
// reported.
func (s *TimeEntryService) checkOverlap(ctx context.Context, entry *repository.TimeEntry, skipID string) error {
	others, err := s.repo.ListForEmployeeRange(ctx, entry.EmployeeID,
		entry.EntryDate.AddDate(0, 0, -1), entry.EntryDate.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	for _, other := range others {
		if other.ID == skipID || other.EntryType != string(worktime.EntryWork) || other.EndTime == nil {
			continue
		}
		if !intervalsOverlap(entry.StartTime, *entry.EndTime, other.StartTime, *other.EndTime) {
			continue
		}
		if worktime.IsNightShiftPair(entry.StartTime, entry.EndTime, other.StartTime, other.EndTime) {
			continue
		}
		return errors.Conflict(fmt.Sprintf("time entry overlaps an existing work block from %s to %s",
			other.StartTime.Format("15:04"), other.EndTime.Format("15:04")))
	}
	return nil
}

// intervalsOverlap reports whether [aStart, aEnd) and [bStart, bEnd)
// intersect. Touching boundaries do not count as overlap.
func intervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// surchargeFor computes the Sunday and holiday surcharge stored on the
// entry. Only closed work blocks earn a surcharge.
func (s *TimeEntryService) surchargeFor(entry *repository.TimeEntry) float64 {
	if entry.EntryType != string(worktime.EntryWork) || entry.EndTime == nil {
		return 0
	}
	if !worktime.IsHolidayOrSunday(entry.EntryDate) {
		return 0
	}
	return worktime.SurchargeHours(worktime.WorkHours(entry.StartTime, *entry.EndTime, entry.BreakMinutes))
}

// affectedMonths collects the distinct first-of-month dates touched by a
// set of deleted entries.
func affectedMonths(ids []string, byID map[string]*repository.TimeEntry, clicked *repository.TimeEntry) []time.Time {
	seen := make(map[string]bool)
	var months []time.Time
	add := func(date time.Time) {
		first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
		key := first.Format("2006-01")
		if !seen[key] {
			seen[key] = true
			months = append(months, first)
		}
	}
	add(clicked.EntryDate)
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			add(e.EntryDate)
		}
	}
	return months
}
