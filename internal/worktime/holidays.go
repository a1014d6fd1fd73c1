package worktime

import "time"

// IsHolidayOrSunday reports whether the given date is a Sunday or one of
// the fixed canton holidays for its year. Only year, month and day of the
// argument are considered.
func IsHolidayOrSunday(date time.Time) bool {
	if date.Weekday() == time.Sunday {
		return true
	}
	for _, h := range holidaysForYear(date.Year()) {
		if SameDay(date, h) {
			return true
		}
	}
	return false
}

// holidaysForYear returns the canton holiday calendar for a year.
func holidaysForYear(year int) []time.Time {
	easter := easterSunday(year)

	return []time.Time{
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),   // Neujahr
		time.Date(year, time.January, 2, 0, 0, 0, 0, time.UTC),   // Berchtoldstag
		easter.AddDate(0, 0, -2),                                 // Karfreitag
		easter.AddDate(0, 0, 1),                                  // Ostermontag
		time.Date(year, time.May, 1, 0, 0, 0, 0, time.UTC),       // Tag der Arbeit
		easter.AddDate(0, 0, 39),                                 // Auffahrt
		easter.AddDate(0, 0, 50),                                 // Pfingstmontag
		time.Date(year, time.August, 1, 0, 0, 0, 0, time.UTC),    // Bundesfeier
		time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC), // Weihnachten
		time.Date(year, time.December, 26, 0, 0, 0, 0, time.UTC), // Stephanstag
	}
}

// easterSunday computes the Gregorian Easter date using the anonymous
// Gauss algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
