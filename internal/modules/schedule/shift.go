// README: Shift calendar; pure time-of-day window arithmetic for shifts A-D.
package schedule

import "time"

// Shift is a fixed daily work window assigned to a driver/vehicle pair.
type Shift string

const (
	ShiftA Shift = "A"
	ShiftB Shift = "B"
	ShiftC Shift = "C"
	ShiftD Shift = "D"
)

// ShiftDifference widens every shift window on both ends, so a booking that
// starts just before a shift or ends just after it still matches.
const ShiftDifference = 15 * time.Minute

const minutesPerDay = 24 * 60

// window is a shift's span in minutes of day, half-open.
type window struct {
	startMin int
	endMin   int
}

var shiftWindows = map[Shift]window{
	ShiftA: {6 * 60, 14 * 60},
	ShiftB: {10 * 60, 18 * 60},
	ShiftC: {12 * 60, 20 * 60},
	ShiftD: {15 * 60, 23 * 60},
}

// AllShifts lists the shifts in their fixed order.
var AllShifts = []Shift{ShiftA, ShiftB, ShiftC, ShiftD}

// Valid reports whether s is one of the four known shifts.
func (s Shift) Valid() bool {
	_, ok := shiftWindows[s]
	return ok
}

// Bounds returns the shift's unwidened start and end as hours of day.
func (s Shift) Bounds() (startHour, endHour int) {
	w := shiftWindows[s]
	return w.startMin / 60, w.endMin / 60
}

// MatchingShifts returns every shift whose window, widened by
// ShiftDifference, intersects [start, end). An interval spanning midnight
// is matched against both the current and the following day's windows, so
// the result is the union over all overlapped shifts.
func MatchingShifts(start, end time.Time) []Shift {
	if !end.After(start) {
		return nil
	}
	bs := minuteOfDay(start)
	be := bs + int(end.Sub(start)/time.Minute)

	diff := int(ShiftDifference / time.Minute)
	var out []Shift
	for _, s := range AllShifts {
		w := shiftWindows[s]
		ws, we := w.startMin-diff, w.endMin+diff
		if intervalsOverlap(bs, be, ws, we) ||
			intervalsOverlap(bs, be, ws+minutesPerDay, we+minutesPerDay) {
			out = append(out, s)
		}
	}
	return out
}

// ShiftsOverlap reports whether two shifts' widened windows intersect on
// the same date. Used by planning to enforce the one-active-schedule
// invariant: a driver may hold two schedules per date only for disjoint
// shifts (A and D).
func ShiftsOverlap(a, b Shift) bool {
	diff := int(ShiftDifference / time.Minute)
	wa, wb := shiftWindows[a], shiftWindows[b]
	return intervalsOverlap(wa.startMin-diff, wa.endMin+diff, wb.startMin-diff, wb.endMin+diff)
}

// intervalsOverlap is the half-open overlap test: [a,b) meets [c,d).
func intervalsOverlap(a, b, c, d int) bool {
	return a < d && c < b
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
