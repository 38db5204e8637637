// README: Shift calendar tests; concrete windows plus a randomized differential check.
package schedule

import (
	"math/rand"
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 14, hour, min, 0, 0, time.UTC)
}

func TestMatchingShifts_MidafternoonWindow(t *testing.T) {
	// A widened to 05:45-14:15, B to 09:45-18:15, C to 11:45-20:15 all
	// cover 13:00-13:30; D starts at 14:45.
	got := MatchingShifts(at(13, 0), at(13, 30))
	want := []Shift{ShiftA, ShiftB, ShiftC}
	assertShifts(t, got, want)
}

func TestMatchingShifts_EarlyMorning(t *testing.T) {
	got := MatchingShifts(at(5, 50), at(6, 10))
	assertShifts(t, got, []Shift{ShiftA})
}

func TestMatchingShifts_LateEvening(t *testing.T) {
	got := MatchingShifts(at(22, 50), at(23, 10))
	assertShifts(t, got, []Shift{ShiftD})
}

func TestMatchingShifts_SpansMidnight(t *testing.T) {
	// 22:00 to 01:00 next day only reaches D (widened to 23:15); no shift
	// of the following day starts before 05:45.
	got := MatchingShifts(at(22, 0), at(22, 0).Add(3*time.Hour))
	assertShifts(t, got, []Shift{ShiftD})
}

func TestMatchingShifts_InvalidInterval(t *testing.T) {
	if got := MatchingShifts(at(12, 0), at(12, 0)); len(got) != 0 {
		t.Fatalf("empty interval matched %v", got)
	}
	if got := MatchingShifts(at(12, 0), at(11, 0)); len(got) != 0 {
		t.Fatalf("inverted interval matched %v", got)
	}
}

// TestMatchingShifts_Differential compares against a per-minute scan of
// the widened shift windows over randomized intervals.
func TestMatchingShifts_Differential(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		startMin := rng.Intn(minutesPerDay)
		duration := 1 + rng.Intn(300)
		start := at(0, 0).Add(time.Duration(startMin) * time.Minute)
		end := start.Add(time.Duration(duration) * time.Minute)

		got := MatchingShifts(start, end)
		for _, s := range AllShifts {
			want := scanShiftOverlap(s, startMin, startMin+duration)
			if contains(got, s) != want {
				t.Fatalf("interval %s+%dm shift %s: got %v, brute force says %v",
					start.Format("15:04"), duration, s, contains(got, s), want)
			}
		}
	}
}

// scanShiftOverlap brute-forces membership minute by minute, covering the
// shift's window on the booking day and the following day.
func scanShiftOverlap(s Shift, fromMin, toMin int) bool {
	w := shiftWindows[s]
	diff := int(ShiftDifference / time.Minute)
	for m := fromMin; m < toMin; m++ {
		if m >= w.startMin-diff && m < w.endMin+diff {
			return true
		}
		if m >= w.startMin-diff+minutesPerDay && m < w.endMin+diff+minutesPerDay {
			return true
		}
	}
	return false
}

func TestShiftsOverlap(t *testing.T) {
	cases := []struct {
		a, b Shift
		want bool
	}{
		{ShiftA, ShiftB, true},
		{ShiftA, ShiftC, true},
		{ShiftB, ShiftC, true},
		{ShiftB, ShiftD, true},
		{ShiftC, ShiftD, true},
		// A ends 14:15 widened, D starts 14:45 widened.
		{ShiftA, ShiftD, false},
	}
	for _, tc := range cases {
		if got := ShiftsOverlap(tc.a, tc.b); got != tc.want {
			t.Errorf("ShiftsOverlap(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
		if got := ShiftsOverlap(tc.b, tc.a); got != tc.want {
			t.Errorf("ShiftsOverlap(%s, %s) = %v, want %v", tc.b, tc.a, got, tc.want)
		}
	}
}

func assertShifts(t *testing.T, got, want []Shift) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func contains(shifts []Shift, s Shift) bool {
	for _, v := range shifts {
		if v == s {
			return true
		}
	}
	return false
}
