// Package worktime holds the pure work-time arithmetic of Spitex Domus:
// net work hours, Sunday/holiday surcharges, monthly targets, night-shift
// reconciliation and the date-window guards. Functions here never touch the
// database and never read the wall clock; "today" is always a parameter.
package worktime

import "time"

// EntryType classifies a time entry block.
type EntryType string

const (
	EntryWork              EntryType = "WORK"
	EntrySleep             EntryType = "SLEEP"
	EntrySleepInterruption EntryType = "SLEEP_INTERRUPTION"
)

// Entry is the view of a time entry the pure functions operate on.
// Date is the booking day, which for night-shift entries may differ from
// the calendar day of StartTime.
type Entry struct {
	ID        string
	Date      time.Time
	StartTime time.Time
	EndTime   *time.Time
	Type      EntryType
}

// Day truncates a timestamp to its calendar day, keeping the location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func clockIs(t time.Time, hour, minute int) bool {
	return t.Hour() == hour && t.Minute() == minute
}
