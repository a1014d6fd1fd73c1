// Package service implements the plausibility scanner: a read only
// sweep over an employee's booked year that flags suspicious days
// without blocking any booking.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	timeentryrepo "github.com/spitex-domus/domus-backend/internal/timeentry/repository"
	"github.com/spitex-domus/domus-backend/internal/worktime"
	"github.com/spitex-domus/domus-backend/pkg/logger"
)

// Issue kinds reported by the scanner.
const (
	IssueTooManyBlocks           = "TOO_MANY_BLOCKS"
	IssueTooManyHours            = "TOO_MANY_HOURS"
	IssueMissingEndTime          = "MISSING_END_TIME"
	IssueNegativeDuration        = "NEGATIVE_DURATION"
	IssueOverlap                 = "OVERLAP"
	IssueExcessSleepInterruption = "EXCESS_SLEEP_INTERRUPTION"
)

// Thresholds for the day level checks.
const (
	maxBlocksPerDay          = 4
	maxHoursPerDay           = 10.0
	maxSleepInterruptionMins = 180
)

// Issue is a single finding on one booking day.
type Issue struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	EmployeeID string    `json:"employee_id"`
	Date       time.Time `json:"date"`
	Message    string    `json:"message"`
	EntryIDs   []string  `json:"entry_ids"`
}

// Scanner walks an employee's bookings and reports plausibility issues.
type Scanner struct {
	entries *timeentryrepo.TimeEntryRepository
	logger  *logger.Logger
	now     func() time.Time
}

// NewScanner creates a new plausibility scanner
func NewScanner(entries *timeentryrepo.TimeEntryRepository, log *logger.Logger) *Scanner {
	return &Scanner{entries: entries, logger: log, now: time.Now}
}

// ScanYear checks every booked day of the employee's year and returns
// the findings ordered by date. A day with several problems produces
// several issues.
func (s *Scanner) ScanYear(ctx context.Context, employeeID string, year int) ([]Issue, error) {
	all, err := s.entries.ListForEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]*timeentryrepo.TimeEntry)
	var days []string
	for _, e := range all {
		key := worktime.Day(e.EntryDate).Format("2006-01-02")
		if _, ok := byDay[key]; !ok {
			days = append(days, key)
		}
		byDay[key] = append(byDay[key], e)
	}
	sort.Strings(days)

	var issues []Issue
	for _, key := range days {
		date, _ := time.Parse("2006-01-02", key)
		next := byDay[date.AddDate(0, 0, 1).Format("2006-01-02")]
		issues = append(issues, scanDay(employeeID, date, byDay[key], next, s.now())...)
	}

	s.logger.Info().
		Str("employee_id", employeeID).
		Int("year", year).
		Int("issue_count", len(issues)).
		Msg("Plausibility scan finished")

	return issues, nil
}

// scanDay runs all checks on the entries booked on one calendar date.
// nextDay carries the following day's entries so a night shift's carry
// over hours count towards the shift's booking day.
func scanDay(employeeID string, date time.Time, entries, nextDay []*timeentryrepo.TimeEntry, today time.Time) []Issue {
	var issues []Issue
	add := func(kind, message string, ids ...string) {
		issues = append(issues, Issue{
			ID:         issueID(employeeID, date, kind, ids),
			Kind:       kind,
			EmployeeID: employeeID,
			Date:       date,
			Message:    message,
			EntryIDs:   ids,
		})
	}

	var workBlocks []*timeentryrepo.TimeEntry
	var closedCount int
	var totalHours float64
	var interruptionMins int
	var hasEvening bool

	for _, e := range entries {
		switch e.EntryType {
		case string(worktime.EntryWork):
			workBlocks = append(workBlocks, e)
			if e.EndTime == nil {
				continue
			}
			closedCount++
			if !e.EndTime.After(e.StartTime) {
				add(IssueNegativeDuration,
					fmt.Sprintf("entry ends at or before its start (%s)", e.StartTime.Format("15:04")), e.ID)
				continue
			}
			totalHours += worktime.WorkHours(e.StartTime, *e.EndTime, e.BreakMinutes)
			if worktime.IsEveningBlock(e.Worktime()) {
				hasEvening = true
			}
		case string(worktime.EntrySleepInterruption):
			interruptionMins += e.SleepInterruptionMinutes
		}
	}

	if closedCount > maxBlocksPerDay {
		ids := make([]string, 0, closedCount)
		for _, e := range workBlocks {
			if e.EndTime != nil {
				ids = append(ids, e.ID)
			}
		}
		add(IssueTooManyBlocks,
			fmt.Sprintf("%d work blocks on one day, expected at most %d", closedCount, maxBlocksPerDay), ids...)
	}

	for _, e := range workBlocks {
		if e.EndTime == nil && !worktime.SameDay(e.StartTime, today) {
			add(IssueMissingEndTime,
				fmt.Sprintf("work block started %s has no end time", e.StartTime.Format("15:04")), e.ID)
		}
	}

	// A legacy night shift stores its carry over block on the next
	// calendar date. Pull those hours back to the booking day before
	// judging the total, but only when the block actually resolves to
	// this day. A carry booked under the next day belongs to the next
	// day's shift and must stay there.
	if hasEvening {
		for _, e := range nextDay {
			if e.EntryType != string(worktime.EntryWork) || e.EndTime == nil {
				continue
			}
			if !worktime.IsCarryOverBlock(e.Worktime()) || !e.EndTime.After(e.StartTime) {
				continue
			}
			if booked, _ := worktime.BookingDate(e.Worktime()); !worktime.SameDay(booked, date) {
				continue
			}
			totalHours += worktime.WorkHours(e.StartTime, *e.EndTime, e.BreakMinutes)
		}
	}
	if totalHours > maxHoursPerDay {
		add(IssueTooManyHours,
			fmt.Sprintf("%.1f worked hours on one day, expected at most %.0f", totalHours, maxHoursPerDay))
	}

	for _, pair := range overlapPairs(workBlocks) {
		add(IssueOverlap, "two work blocks on this day overlap", pair[0], pair[1])
	}

	if interruptionMins > maxSleepInterruptionMins {
		add(IssueExcessSleepInterruption,
			fmt.Sprintf("%d minutes of sleep interruption, expected at most %d", interruptionMins, maxSleepInterruptionMins))
	}

	return issues
}

// overlapPairs reports, for every closed work block, its first partner
// whose [start, end) interval intersects it. Each pair appears once.
// Night shift pairs are expected by the booking convention and not
// reported.
func overlapPairs(blocks []*timeentryrepo.TimeEntry) [][2]string {
	var pairs [][2]string
	seen := make(map[[2]string]bool)
	for i, a := range blocks {
		if a.EndTime == nil {
			continue
		}
		for j, b := range blocks {
			if j == i || b.EndTime == nil {
				continue
			}
			if !a.StartTime.Before(*b.EndTime) || !b.StartTime.Before(*a.EndTime) {
				continue
			}
			if worktime.IsNightShiftPair(a.StartTime, a.EndTime, b.StartTime, b.EndTime) {
				continue
			}
			key := [2]string{a.ID, b.ID}
			if b.ID < a.ID {
				key = [2]string{b.ID, a.ID}
			}
			if !seen[key] {
				seen[key] = true
				pairs = append(pairs, key)
			}
			break
		}
	}
	return pairs
}

// issueID derives a stable identifier from the finding's inputs so the
// same issue keeps its ID across repeated scans.
func issueID(employeeID string, date time.Time, kind string, entryIDs []string) string {
	ids := append([]string(nil), entryIDs...)
	sort.Strings(ids)
	sum := sha256.Sum256([]byte(employeeID + "|" + date.Format("2006-01-02") + "|" + kind + "|" + strings.Join(ids, ",")))
	return hex.EncodeToString(sum[:8])
}
