package scheduling

import (
	"testing"
	"time"
)

func iv(t *testing.T, startHM, endHM string) Interval {
	t.Helper()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	start, ok1 := anchorHM(day, startHM)
	end, ok2 := anchorHM(day, endHM)
	if !ok1 || !ok2 {
		t.Fatalf("bad interval %s-%s", startHM, endHM)
	}
	return Interval{Start: start, End: end}
}

func TestFindConflict_EmptyExisting(t *testing.T) {
	_, found := FindConflict(iv(t, "10:00", "11:00"), nil)
	if found {
		t.Fatalf("expected no conflict on empty day")
	}
}

func TestFindConflict_NoOverlap(t *testing.T) {
	existing := []Interval{
		iv(t, "08:00", "09:00"),
		iv(t, "12:00", "13:00"),
	}
	if _, found := FindConflict(iv(t, "10:00", "11:00"), existing); found {
		t.Fatalf("expected no conflict in the gap")
	}
}

func TestFindConflict_BackToBackIsNotConflict(t *testing.T) {
	existing := []Interval{iv(t, "09:00", "10:00")}

	if _, found := FindConflict(iv(t, "10:00", "11:00"), existing); found {
		t.Fatalf("candidate starting at previous end must not conflict")
	}
	if _, found := FindConflict(iv(t, "08:00", "09:00"), existing); found {
		t.Fatalf("candidate ending at next start must not conflict")
	}
}

func TestFindConflict_PartialOverlap(t *testing.T) {
	existing := []Interval{iv(t, "10:00", "11:00")}

	got, found := FindConflict(iv(t, "10:30", "11:30"), existing)
	if !found {
		t.Fatalf("expected conflict")
	}
	if !got.Start.Equal(existing[0].Start) {
		t.Fatalf("conflict = %v, want %v", got, existing[0])
	}
}

func TestFindConflict_CandidateSwallowsExisting(t *testing.T) {
	existing := []Interval{iv(t, "10:00", "10:30")}
	if _, found := FindConflict(iv(t, "09:00", "12:00"), existing); !found {
		t.Fatalf("expected conflict when candidate contains an existing interval")
	}
}

func TestFindConflict_ReturnsFirstOverlapping(t *testing.T) {
	existing := []Interval{
		iv(t, "08:00", "09:00"),
		iv(t, "09:30", "10:30"),
		iv(t, "11:00", "12:00"),
	}

	got, found := FindConflict(iv(t, "10:00", "11:30"), existing)
	if !found {
		t.Fatalf("expected conflict")
	}
	if !got.Start.Equal(existing[1].Start) {
		t.Fatalf("first conflict = %v, want the 09:30 interval", got)
	}
}

func TestFindConflict_ManyIntervals(t *testing.T) {
	day := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	var existing []Interval
	for i := 0; i < 40; i++ {
		start := day.Add(time.Duration(i) * 30 * time.Minute)
		existing = append(existing, Interval{Start: start, End: start.Add(20 * time.Minute)})
	}

	// Candidate fits exactly into one of the 10 minute gaps.
	gapStart := day.Add(5*30*time.Minute + 20*time.Minute)
	if _, found := FindConflict(Interval{Start: gapStart, End: gapStart.Add(10 * time.Minute)}, existing); found {
		t.Fatalf("expected candidate to fit in the gap")
	}

	// Shift by one minute and it clips the next interval.
	if _, found := FindConflict(Interval{Start: gapStart.Add(time.Minute), End: gapStart.Add(11 * time.Minute)}, existing); !found {
		t.Fatalf("expected conflict after shifting into the next booking")
	}
}

func TestSortIntervals(t *testing.T) {
	ivs := []Interval{
		iv(t, "12:00", "13:00"),
		iv(t, "08:00", "09:00"),
		iv(t, "10:00", "11:00"),
	}
	SortIntervals(ivs)

	for i := 1; i < len(ivs); i++ {
		if ivs[i].Start.Before(ivs[i-1].Start) {
			t.Fatalf("intervals not sorted at %d: %v", i, ivs)
		}
	}
}
