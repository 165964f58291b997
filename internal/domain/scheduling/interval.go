package scheduling

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End). Stored appointment
// intervals already include the trailing buffer.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

func SortIntervals(ivs []Interval) {
	sort.Slice(ivs, func(i, j int) bool {
		return ivs[i].Start.Before(ivs[j].Start)
	})
}

// FindConflict returns the first interval in existing that overlaps the
// candidate. existing must be sorted by start; because committed intervals
// never overlap each other, their ends are sorted too, so a binary search to
// the first interval ending after candidate.Start followed by a short forward
// scan is enough.
func FindConflict(candidate Interval, existing []Interval) (Interval, bool) {
	idx := sort.Search(len(existing), func(i int) bool {
		return existing[i].End.After(candidate.Start)
	})

	for i := idx; i < len(existing); i++ {
		if !existing[i].Start.Before(candidate.End) {
			break
		}
		if candidate.Overlaps(existing[i]) {
			return existing[i], true
		}
	}

	return Interval{}, false
}
