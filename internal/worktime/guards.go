package worktime

import "time"

// ScheduleDateEditable reports whether a schedule row on the given date may
// still be edited: future dates always, past dates until the 4th calendar
// day of the month following the date's month (from the 5th on, the month
// is closed for payroll).
func ScheduleDateEditable(date, today time.Time) bool {
	dateDay := Day(date)
	todayDay := Day(today)

	if dateDay.After(todayDay) {
		return true
	}

	cutoff := time.Date(dateDay.Year(), dateDay.Month()+1, 5, 0, 0, 0, 0, dateDay.Location())
	return todayDay.Before(cutoff)
}

// DateEditableForEmployee reports whether a time entry on the given date may
// be edited by the caller. Future dates are always editable. For past dates
// employees may only reach back two days; admins are unrestricted.
func DateEditableForEmployee(date, today time.Time, isAdmin bool) bool {
	if isAdmin {
		return true
	}

	dateDay := Day(date)
	todayDay := Day(today)

	if !dateDay.Before(todayDay) {
		return true
	}

	earliest := todayDay.AddDate(0, 0, -2)
	return !dateDay.Before(earliest)
}
