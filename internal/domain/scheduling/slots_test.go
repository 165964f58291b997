package scheduling

import (
	"testing"
	"time"
)

func testWindow(t *testing.T, openHM, closeHM string) Window {
	t.Helper()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	w, ok := BuildWindow(day, openHM, closeHM)
	if !ok {
		t.Fatalf("bad window %s-%s", openHM, closeHM)
	}
	return w
}

func TestFreeSlots_EmptyDay(t *testing.T) {
	w := testWindow(t, "09:00", "12:00")

	slots := FreeSlots(w, nil, 60*time.Minute, 0)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(w.Open) {
		t.Fatalf("first slot = %v, want window open", slots[0].Start)
	}
	if !slots[2].End.Equal(w.Close) {
		t.Fatalf("last slot end = %v, want window close", slots[2].End)
	}
}

func TestFreeSlots_AroundOneBooking(t *testing.T) {
	// Window 08:00-18:00, one booking occupying [10:00, 11:15) with its
	// buffer, request for 45 minutes with a 15 minute buffer.
	w := testWindow(t, "08:00", "18:00")
	booked := []Interval{iv(t, "10:00", "11:15")}

	slots := FreeSlots(w, booked, 45*time.Minute, 15*time.Minute)

	if len(slots) != 8 {
		t.Fatalf("expected 8 slots, got %d: %v", len(slots), slots)
	}
	if !slots[0].Start.Equal(w.Open) {
		t.Fatalf("first slot = %v, want 08:00", slots[0].Start)
	}

	// 09:00 still fits before the booking; 10:00 does not.
	if !slots[1].Start.Equal(w.Open.Add(time.Hour)) {
		t.Fatalf("second slot = %v, want 09:00", slots[1].Start)
	}

	// First slot after the booking starts exactly at its buffered end.
	if !slots[2].Start.Equal(booked[0].End) {
		t.Fatalf("post-booking slot = %v, want 11:15", slots[2].Start)
	}

	// Reported slot length is the service duration, without the buffer.
	if got := slots[0].End.Sub(slots[0].Start); got != 45*time.Minute {
		t.Fatalf("slot length = %v, want 45m", got)
	}
}

func TestFreeSlots_SlotMustFitWithBuffer(t *testing.T) {
	// 90 minutes open, 60 minute service with 45 of buffer: the buffered
	// end would cross the close, so nothing is offered.
	w := testWindow(t, "09:00", "10:30")

	slots := FreeSlots(w, nil, 60*time.Minute, 45*time.Minute)
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %v", slots)
	}
}

func TestFreeSlots_FullyBooked(t *testing.T) {
	w := testWindow(t, "09:00", "12:00")
	booked := []Interval{iv(t, "09:00", "12:00")}

	slots := FreeSlots(w, booked, 30*time.Minute, 0)
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %v", slots)
	}
}

func TestFreeSlots_BookingOverlapsWindowEdges(t *testing.T) {
	// Bookings hanging over the window edges only shrink the usable range.
	w := testWindow(t, "09:00", "12:00")
	booked := []Interval{
		iv(t, "08:00", "09:30"),
		iv(t, "11:30", "13:00"),
	}

	slots := FreeSlots(w, booked, 60*time.Minute, 0)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %v", slots)
	}
	if !slots[0].Start.Equal(booked[0].End) {
		t.Fatalf("first slot = %v, want 09:30", slots[0].Start)
	}
	if !slots[1].Start.Equal(booked[0].End.Add(time.Hour)) {
		t.Fatalf("second slot = %v, want 10:30", slots[1].Start)
	}
}

func TestFreeSlots_AdjacentBookings(t *testing.T) {
	w := testWindow(t, "09:00", "12:00")
	booked := []Interval{
		iv(t, "09:00", "10:00"),
		iv(t, "10:00", "11:00"),
	}

	slots := FreeSlots(w, booked, 60*time.Minute, 0)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %v", slots)
	}
	if !slots[0].Start.Equal(booked[1].End) {
		t.Fatalf("slot = %v, want 11:00", slots[0].Start)
	}
}

func TestFreeSlots_NonPositiveStep(t *testing.T) {
	w := testWindow(t, "09:00", "12:00")
	if slots := FreeSlots(w, nil, 0, 0); len(slots) != 0 {
		t.Fatalf("expected no slots for zero duration, got %v", slots)
	}
}

func TestBuildWindow(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	if _, ok := BuildWindow(day, "18:00", "08:00"); ok {
		t.Fatalf("inverted window must not build")
	}
	if _, ok := BuildWindow(day, "nope", "17:00"); ok {
		t.Fatalf("malformed open time must not build")
	}

	w, ok := BuildWindow(day, "08:30", "17:00")
	if !ok {
		t.Fatalf("expected window to build")
	}
	if w.Open.Hour() != 8 || w.Open.Minute() != 30 {
		t.Fatalf("open = %v, want 08:30", w.Open)
	}
	if !w.Contains(Interval{Start: w.Open, End: w.Close}) {
		t.Fatalf("window must contain its full span")
	}
	if w.Contains(Interval{Start: w.Open.Add(-time.Minute), End: w.Close}) {
		t.Fatalf("window must reject an interval starting before open")
	}
}
