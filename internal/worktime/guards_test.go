package worktime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestScheduleDateEditable(t *testing.T) {
	januaryDate := d(2024, time.January, 15)

	tests := []struct {
		name  string
		date  time.Time
		today time.Time
		want  bool
	}{
		{"same day", januaryDate, januaryDate, true},
		{"future date", d(2024, time.June, 1), januaryDate, true},
		{"later in january", januaryDate, d(2024, time.January, 31), true},
		{"february 1st", januaryDate, d(2024, time.February, 1), true},
		{"february 4th still open", januaryDate, d(2024, time.February, 4), true},
		{"february 5th closed", januaryDate, d(2024, time.February, 5), false},
		{"march closed", januaryDate, d(2024, time.March, 1), false},
		{"december edits open through january 4th", d(2023, time.December, 20), d(2024, time.January, 4), true},
		{"december closed from january 5th", d(2023, time.December, 20), d(2024, time.January, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScheduleDateEditable(tt.date, tt.today))
		})
	}
}

func TestDateEditableForEmployee(t *testing.T) {
	today := d(2024, time.March, 10)

	tests := []struct {
		name    string
		date    time.Time
		isAdmin bool
		want    bool
	}{
		{"future date employee", d(2024, time.March, 11), false, true},
		{"today employee", today, false, true},
		{"yesterday employee", d(2024, time.March, 9), false, true},
		{"two days back employee", d(2024, time.March, 8), false, true},
		{"three days back employee", d(2024, time.March, 7), false, false},
		{"last month employee", d(2024, time.February, 10), false, false},
		{"three days back admin", d(2024, time.March, 7), true, true},
		{"last year admin", d(2023, time.March, 10), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DateEditableForEmployee(tt.date, today, tt.isAdmin))
		})
	}
}
