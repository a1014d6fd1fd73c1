package worktime

import "time"

const (
	// MaxWorkBlockHours is the longest a single work block may run before
	// it has to be split into multiple blocks.
	MaxWorkBlockHours = 6

	// surchargeFactor credits worked hours on Sundays/holidays one-to-one.
	surchargeFactor = 1.0
)

// WorkHours converts a (start, end, break) triple into net worked hours:
// (end - start) minus the break. Negative or zero durations are a caller
// error and are not clamped here.
func WorkHours(start, end time.Time, breakMinutes int) float64 {
	return end.Sub(start).Hours() - float64(breakMinutes)/60.0
}

// ViolatesMaxWorkBlock reports whether a single block runs longer than the
// six-hour limit. Break minutes do not enter into this check.
func ViolatesMaxWorkBlock(start, end time.Time) bool {
	return end.Sub(start) > MaxWorkBlockHours*time.Hour
}

// SurchargeHours computes the surcharge credited for work performed on a
// Sunday or holiday. The surcharge equals the worked hours on a qualifying
// day; callers invoke this only when IsHolidayOrSunday is true.
func SurchargeHours(workHours float64) float64 {
	return workHours * surchargeFactor
}

// MonthlyTargetHours computes the calendar-days-based monthly target:
// weeklyHours scaled by pensum and by the month's share of a week.
func MonthlyTargetHours(weeklyHours, pensum float64, year int, month time.Month) float64 {
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return weeklyHours * pensum / 100.0 * float64(daysInMonth) / 7.0
}

// ProratedServiceMinutes scales a shift-type duration by an employee's
// pensum. Used for the FE (vacation), K (sick) and WB (training) services,
// whose credited duration depends on employment percentage rather than on
// the literal start and end times of the planned instance.
func ProratedServiceMinutes(durationMinutes int, pensum float64) float64 {
	return float64(durationMinutes) * pensum / 100.0
}
