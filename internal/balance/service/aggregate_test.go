package service

import (
	"testing"
	"time"

	schedulerepo "github.com/spitex-domus/domus-backend/internal/schedule/repository"
	timeentryrepo "github.com/spitex-domus/domus-backend/internal/timeentry/repository"
	"github.com/spitex-domus/domus-backend/internal/worktime"
	"github.com/stretchr/testify/assert"
)

func at(day, hour, min int) time.Time {
	return time.Date(2024, time.March, day, hour, min, 0, 0, time.UTC)
}

func workEntry(day, startH, endH, breakMin int) *timeentryrepo.TimeEntry {
	end := at(day, endH, 0)
	return &timeentryrepo.TimeEntry{
		EntryDate: at(day, 0, 0), StartTime: at(day, startH, 0), EndTime: &end,
		BreakMinutes: breakMin, EntryType: string(worktime.EntryWork),
	}
}

func TestSumWorkedHours(t *testing.T) {
	t.Run("work entries contribute net hours", func(t *testing.T) {
		entries := []*timeentryrepo.TimeEntry{
			workEntry(4, 8, 12, 0),  // 4h
			workEntry(4, 13, 17, 0), // 4h
			workEntry(5, 8, 17, 60), // 8h
		}
		totals := SumWorkedHours(entries)
		assert.InDelta(t, 16.0, totals.ActualHours, 1e-9)
		assert.InDelta(t, 0.0, totals.SurchargeHours, 1e-9)
	})

	t.Run("sleep excluded, interruption minutes counted", func(t *testing.T) {
		sleepEnd := at(5, 6, 0)
		entries := []*timeentryrepo.TimeEntry{
			workEntry(4, 19, 23, 0), // 4h
			{
				EntryDate: at(4, 0, 0), StartTime: at(4, 23, 1), EndTime: &sleepEnd,
				EntryType: string(worktime.EntrySleep),
			},
			{
				EntryDate: at(4, 0, 0), StartTime: at(5, 2, 0),
				EntryType:                string(worktime.EntrySleepInterruption),
				SleepInterruptionMinutes: 45,
			},
		}
		totals := SumWorkedHours(entries)
		assert.InDelta(t, 4.75, totals.ActualHours, 1e-9)
	})

	t.Run("open entry contributes nothing", func(t *testing.T) {
		open := &timeentryrepo.TimeEntry{
			EntryDate: at(4, 0, 0), StartTime: at(4, 8, 0),
			EntryType: string(worktime.EntryWork),
		}
		totals := SumWorkedHours([]*timeentryrepo.TimeEntry{open})
		assert.InDelta(t, 0.0, totals.ActualHours, 1e-9)
	})

	t.Run("stored surcharge is summed", func(t *testing.T) {
		e := workEntry(3, 8, 12, 0) // a Sunday
		e.SurchargeHours = 4.0
		totals := SumWorkedHours([]*timeentryrepo.TimeEntry{e})
		assert.InDelta(t, 4.0, totals.ActualHours, 1e-9)
		assert.InDelta(t, 4.0, totals.SurchargeHours, 1e-9)
	})
}

func TestSumPlannedHours(t *testing.T) {
	name := func(s string) *string { return &s }
	dur := func(d int) *int { return &d }

	t.Run("regular service uses start and end times", func(t *testing.T) {
		entries := []*schedulerepo.ScheduleEntry{
			{EntryDate: at(4, 0, 0), StartTime: at(4, 7, 0), EndTime: at(4, 12, 0),
				ServiceName: name("Morgendienst"), ServiceDuration: dur(300)},
		}
		assert.InDelta(t, 5.0, SumPlannedHours(entries, 100), 1e-9)
	})

	t.Run("vacation service is pensum prorated", func(t *testing.T) {
		entries := []*schedulerepo.ScheduleEntry{
			{EntryDate: at(4, 0, 0), StartTime: at(4, 8, 0), EndTime: at(4, 17, 0),
				ServiceName: name(schedulerepo.ServiceVacation), ServiceDuration: dur(504)},
		}
		// Pensum 50%: 504 * 0.5 = 252 minutes = 4.2h, regardless of the
		// instance's literal start and end times.
		assert.InDelta(t, 4.2, SumPlannedHours(entries, 50), 1e-9)
		assert.InDelta(t, 8.4, SumPlannedHours(entries, 100), 1e-9)
	})

	t.Run("sick and training prorate the same way", func(t *testing.T) {
		entries := []*schedulerepo.ScheduleEntry{
			{StartTime: at(4, 8, 0), EndTime: at(4, 9, 0),
				ServiceName: name(schedulerepo.ServiceSick), ServiceDuration: dur(420)},
			{StartTime: at(5, 8, 0), EndTime: at(5, 9, 0),
				ServiceName: name(schedulerepo.ServiceTraining), ServiceDuration: dur(420)},
		}
		assert.InDelta(t, 2*420.0*0.8/60.0, SumPlannedHours(entries, 80), 1e-9)
	})
}

func TestComputeBalance(t *testing.T) {
	assert.InDelta(t, 2.5, ComputeBalance(160, 8, 168, 2.5), 1e-9)
	assert.InDelta(t, -10.0, ComputeBalance(150, 0, 160, 0), 1e-9)
}

func TestComputeBalance_Chaining(t *testing.T) {
	// Month M's balance feeds month M+1 as previous balance.
	march := ComputeBalance(170, 4, 168, 0)
	assert.InDelta(t, 6.0, march, 1e-9)

	april := ComputeBalance(160, 0, 162, march)
	assert.InDelta(t, 4.0, april, 1e-9)

	// Recomputing with unchanged inputs is idempotent.
	assert.Equal(t, april, ComputeBalance(160, 0, 162, march))
}
