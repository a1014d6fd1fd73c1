package service

import (
	schedulerepo "github.com/spitex-domus/domus-backend/internal/schedule/repository"
	timeentryrepo "github.com/spitex-domus/domus-backend/internal/timeentry/repository"
	"github.com/spitex-domus/domus-backend/internal/worktime"
)

// WorkedTotals is the result of summing one month of time entries
type WorkedTotals struct {
	ActualHours    float64
	SurchargeHours float64
}

// SumWorkedHours folds a month of time entries into actual and surcharge
// hours. WORK blocks contribute their net work hours, SLEEP blocks are
// excluded entirely, and SLEEP_INTERRUPTION minutes count as worked time.
// Surcharge is summed from the per-entry stored values. Open entries (no
// end time yet) contribute nothing until they are finalized.
func SumWorkedHours(entries []*timeentryrepo.TimeEntry) WorkedTotals {
	var totals WorkedTotals

	for _, e := range entries {
		totals.SurchargeHours += e.SurchargeHours

		switch worktime.EntryType(e.EntryType) {
		case worktime.EntryWork:
			if e.EndTime == nil {
				continue
			}
			totals.ActualHours += worktime.WorkHours(e.StartTime, *e.EndTime, e.BreakMinutes)
		case worktime.EntrySleepInterruption:
			totals.ActualHours += float64(e.SleepInterruptionMinutes) / 60.0
		}
	}

	return totals
}

// SumPlannedHours folds a month of schedule entries into planned hours.
// For the pensum-prorated services (FE, K, WB) the credited duration is the
// service duration scaled by pensum, independent of the instance's literal
// start and end times; for all other services it is end minus start.
func SumPlannedHours(entries []*schedulerepo.ScheduleEntry, pensum float64) float64 {
	var planned float64

	for _, e := range entries {
		if e.ServiceName != nil && e.ServiceDuration != nil && isProratedService(*e.ServiceName) {
			planned += worktime.ProratedServiceMinutes(*e.ServiceDuration, pensum) / 60.0
			continue
		}
		planned += e.EndTime.Sub(e.StartTime).Hours()
	}

	return planned
}

func isProratedService(name string) bool {
	switch name {
	case schedulerepo.ServiceVacation, schedulerepo.ServiceSick, schedulerepo.ServiceTraining:
		return true
	}
	return false
}

// ComputeBalance applies the balance formula:
// balance = actual + surcharge - target + previous.
func ComputeBalance(actual, surcharge, target, previous float64) float64 {
	return actual + surcharge - target + previous
}
