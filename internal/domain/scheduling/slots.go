package scheduling

import "time"

// FreeSlots enumerates the bookable starts of length duration inside window,
// spaced duration+buffer apart, skipping booked intervals. booked must be
// sorted by start and already buffer-expanded. A slot is only emitted when
// its buffered end still fits before the next booking (or window close), so
// every returned slot can be booked as-is.
func FreeSlots(window Window, booked []Interval, duration, buffer time.Duration) []Interval {
	var slots []Interval

	step := duration + buffer
	if step <= 0 {
		return slots
	}

	cursor := window.Open

	emit := func(gapEnd time.Time) {
		for s := cursor; !s.Add(step).After(gapEnd); s = s.Add(step) {
			slots = append(slots, Interval{Start: s, End: s.Add(duration)})
		}
	}

	for _, b := range booked {
		if !b.End.After(cursor) {
			continue
		}
		if !b.Start.After(window.Close) {
			emit(minTime(b.Start, window.Close))
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}

	if cursor.Before(window.Close) {
		emit(window.Close)
	}

	return slots
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
