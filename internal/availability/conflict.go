// README: Conflict filter; drops schedules whose trips overlap the booking window.
package availability

import (
	"time"

	"shuttle/internal/modules/schedule"
	"shuttle/internal/modules/trip"
	"shuttle/internal/types"
)

// FilterConflictFree keeps the schedules that can absorb the booking
// interval. A schedule is rejected when canceled, or when any of its
// driver's non-cancelled trips — widened to its blocked interval
// [start−breakBefore, end+gapAfter) — overlaps [bookingStart, bookingEnd).
// Input order is preserved; the filter never reorders.
func FilterConflictFree(
	schedules []*schedule.DriverSchedule,
	tripsByDriver map[types.ID][]*trip.Trip,
	bookingStart, bookingEnd time.Time,
	breakBefore, gapAfter time.Duration,
) []*schedule.DriverSchedule {
	out := make([]*schedule.DriverSchedule, 0, len(schedules))
	for _, ds := range schedules {
		if ds.Status == schedule.StatusCanceled {
			continue
		}
		if hasConflict(tripsByDriver[ds.DriverID], bookingStart, bookingEnd, breakBefore, gapAfter) {
			continue
		}
		out = append(out, ds)
	}
	return out
}

func hasConflict(trips []*trip.Trip, bookingStart, bookingEnd time.Time, breakBefore, gapAfter time.Duration) bool {
	for _, t := range trips {
		if t.Status == trip.StatusCancelled {
			continue
		}
		blockedStart := t.StartTime.Add(-breakBefore)
		blockedEnd := t.EndTime().Add(gapAfter)
		if Overlaps(blockedStart, blockedEnd, bookingStart, bookingEnd) {
			return true
		}
	}
	return false
}

// Overlaps is the half-open interval test: [aStart,aEnd) meets [bStart,bEnd).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
