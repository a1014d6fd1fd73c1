package worktime

import (
	"sort"
	"time"
)

// BookingConvention distinguishes the two historical ways a night shift was
// booked. Under the unified convention every component of the shift carries
// the shift's start date as its booking day. Under the legacy split
// convention the post-midnight components were booked under the following
// calendar day instead.
type BookingConvention int

const (
	ConventionUnified BookingConvention = iota
	ConventionLegacySplit
)

// Wall-clock signatures of the night-shift components, matched at minute
// precision so that unrelated entries on adjacent days with merely similar
// times are never pulled in.
const (
	eveningStartHour = 19 // evening WORK block 19:00 ..
	eveningEndHour   = 23 // .. 23:00
	carryStartHour   = 6  // post-midnight WORK continuation 06:01
	carryStartMinute = 1
	sleepStartHour   = 23 // SLEEP block 23:01 (unified) ..
	sleepStartMinute = 1  // .. or 00:00 (legacy split)
)

// Overlap-suppression heuristic for the validator: the first half of a
// night shift starts in the evening window and ends at 23:00, the second
// half starts before 08:00. See checkOverlappingBlocks.
const (
	pairFirstStartMin  = 17
	pairFirstStartMax  = 22
	pairSecondStartMax = 8
)

// IsEveningBlock reports whether a WORK entry carries the 19:00-23:00
// signature of the first half of a night shift.
func IsEveningBlock(e Entry) bool {
	if e.Type != EntryWork || e.EndTime == nil {
		return false
	}
	return clockIs(e.StartTime, eveningStartHour, 0) && clockIs(*e.EndTime, eveningEndHour, 0)
}

// IsCarryOverBlock reports whether a WORK entry carries the 06:01
// continuation signature of the second half of a night shift.
func IsCarryOverBlock(e Entry) bool {
	return e.Type == EntryWork && clockIs(e.StartTime, carryStartHour, carryStartMinute)
}

// isNightSleepBlock matches the SLEEP component, booked as 23:01 under the
// unified convention or 00:00 under the legacy split convention.
func isNightSleepBlock(e Entry) bool {
	if e.Type != EntrySleep {
		return false
	}
	return clockIs(e.StartTime, sleepStartHour, sleepStartMinute) || clockIs(e.StartTime, 0, 0)
}

// IsNightShiftComponent reports whether an entry carries one of the three
// structural night-shift signatures (evening block, carry-over block or
// night sleep block). Deleting such an entry removes the whole shift.
func IsNightShiftComponent(e Entry) bool {
	return IsEveningBlock(e) || IsCarryOverBlock(e) || isNightSleepBlock(e)
}

// isCarriedComponent matches the components that may have been booked under
// the following calendar day in the legacy split model.
func isCarriedComponent(e Entry) bool {
	if IsCarryOverBlock(e) {
		return true
	}
	return e.Type == EntrySleep && clockIs(e.StartTime, 0, 0)
}

// BookingDate resolves the true booking date of an entry along with the
// convention it was booked under. A carry-over component whose booking day
// equals its own start-time calendar day is a legacy split entry and
// belongs to the previous day's shift.
func BookingDate(e Entry) (time.Time, BookingConvention) {
	if isCarriedComponent(e) && SameDay(e.Date, e.StartTime) {
		return Day(e.Date).AddDate(0, 0, -1), ConventionLegacySplit
	}
	return Day(e.Date), ConventionUnified
}

// RelatedNightShiftIDs returns the complete set of entry IDs that form one
// night shift together with the clicked entry, so they can be deleted as a
// unit. The scan covers the shift's booking date and the following day and
// matches components only by their exact wall-clock signatures. The result
// is sorted and deduplicated; applying the function to any member of the
// returned set yields the same set.
func RelatedNightShiftIDs(clicked Entry, all []Entry) []string {
	bookingDate, _ := BookingDate(clicked)
	nextDay := bookingDate.AddDate(0, 0, 1)

	ids := map[string]struct{}{clicked.ID: {}}

	for _, e := range all {
		day := Day(e.Date)
		if !day.Equal(bookingDate) && !day.Equal(nextDay) {
			continue
		}

		switch {
		case IsEveningBlock(e):
			// Evening block always carries the shift's start date.
			if day.Equal(bookingDate) && SameDay(e.StartTime, bookingDate) {
				ids[e.ID] = struct{}{}
			}
		case IsCarryOverBlock(e), isNightSleepBlock(e):
			if d, _ := BookingDate(e); d.Equal(bookingDate) {
				ids[e.ID] = struct{}{}
			}
		case e.Type == EntrySleepInterruption:
			if day.Equal(bookingDate) {
				ids[e.ID] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsNightShiftPair reports whether two WORK blocks booked under the same
// date are the two halves of one continuous night shift rather than a
// conflict: one starts in the 17:00-22:00 evening window and ends at 23:00,
// the other starts before 08:00. The order of the arguments is irrelevant.
//
// This is a wall-clock heuristic, not an explicit shift-membership link;
// unusual shift times can misclassify (open product question).
func IsNightShiftPair(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	return isPairOrdered(aStart, aEnd, bStart) || isPairOrdered(bStart, bEnd, aStart)
}

func isPairOrdered(firstStart time.Time, firstEnd *time.Time, secondStart time.Time) bool {
	if firstEnd == nil {
		return false
	}
	firstOK := firstStart.Hour() >= pairFirstStartMin &&
		firstStart.Hour() <= pairFirstStartMax &&
		clockIs(*firstEnd, eveningEndHour, 0)
	secondOK := secondStart.Hour() < pairSecondStartMax
	return firstOK && secondOK
}
