package worktime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(hour, min int) time.Time {
	return time.Date(2024, time.March, 4, hour, min, 0, 0, time.UTC)
}

func TestWorkHours(t *testing.T) {
	tests := []struct {
		name         string
		start, end   time.Time
		breakMinutes int
		want         float64
	}{
		{"full day no break", ts(8, 0), ts(12, 0), 0, 4.0},
		{"with break", ts(8, 0), ts(17, 0), 60, 8.0},
		{"half hour break", ts(7, 30), ts(12, 0), 30, 4.0},
		{"quarter hours", ts(9, 15), ts(11, 45), 0, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WorkHours(tt.start, tt.end, tt.breakMinutes), 1e-9)
		})
	}
}

func TestWorkHours_StrictlyDecreasingInBreak(t *testing.T) {
	start, end := ts(8, 0), ts(16, 0)

	prev := WorkHours(start, end, 0)
	for brk := 15; brk <= 120; brk += 15 {
		cur := WorkHours(start, end, brk)
		assert.Less(t, cur, prev, "break=%d", brk)
		assert.InDelta(t, end.Sub(start).Hours()-float64(brk)/60.0, cur, 1e-9)
		prev = cur
	}
}

func TestViolatesMaxWorkBlock(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"exactly six hours", ts(8, 0), ts(14, 0), false},
		{"one minute over", ts(8, 0), ts(14, 1), true},
		{"short block", ts(8, 0), ts(10, 0), false},
		{"long evening block", ts(14, 0), ts(22, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ViolatesMaxWorkBlock(tt.start, tt.end))
		})
	}
}

func TestSurchargeHours(t *testing.T) {
	// Full pass-through multiplier: the surcharge equals the worked hours.
	assert.InDelta(t, 7.5, SurchargeHours(7.5), 1e-9)
	assert.InDelta(t, 0.0, SurchargeHours(0.0), 1e-9)
}

func TestMonthlyTargetHours(t *testing.T) {
	// 42h week, full pensum, January 2024 (31 days): 42 * 31/7 = 186.
	assert.InDelta(t, 186.0, MonthlyTargetHours(42, 100, 2024, time.January), 1e-9)

	// Half pensum, February 2024 (leap, 29 days): 42 * 0.5 * 29/7 = 87.
	assert.InDelta(t, 87.0, MonthlyTargetHours(42, 50, 2024, time.February), 1e-9)

	// December rolls into the next year's January for the days-in-month
	// computation without issue.
	assert.InDelta(t, 42.0*31.0/7.0, MonthlyTargetHours(42, 100, 2023, time.December), 1e-9)
}

func TestProratedServiceMinutes(t *testing.T) {
	// Vacation service FE, 504 minutes, pensum 50% -> 252 minutes (4.2h).
	assert.InDelta(t, 252.0, ProratedServiceMinutes(504, 50), 1e-9)
	assert.InDelta(t, 504.0, ProratedServiceMinutes(504, 100), 1e-9)
	assert.InDelta(t, 100.8, ProratedServiceMinutes(504, 20), 1e-9)
}

func TestIsHolidayOrSunday(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"regular monday", time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), false},
		{"sunday", time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), true},
		{"new year", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), true},
		{"berchtoldstag", time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), true},
		{"good friday 2024", time.Date(2024, time.March, 29, 0, 0, 0, 0, time.UTC), true},
		{"easter monday 2024", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), true},
		{"ascension 2024", time.Date(2024, time.May, 9, 0, 0, 0, 0, time.UTC), true},
		{"whit monday 2024", time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC), true},
		{"national day", time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC), true},
		{"christmas", time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC), true},
		{"day after stephanstag", time.Date(2024, time.December, 27, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHolidayOrSunday(tt.date))
		})
	}
}

func TestEasterSunday(t *testing.T) {
	assert.Equal(t, time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), easterSunday(2024))
	assert.Equal(t, time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC), easterSunday(2025))
	assert.Equal(t, time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC), easterSunday(2026))
}
