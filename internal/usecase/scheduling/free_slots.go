package scheduling

import (
	"context"
	"time"

	domain "github.com/fieldline/salesdesk/internal/domain/scheduling"
	"github.com/fieldline/salesdesk/internal/httperr"
)

type FreeSlotsInput struct {
	StaffID         uint
	Date            time.Time
	DurationMinutes int
	BufferMinutes   int
}

// FreeSlots lists the bookable starts for a staff member on a date. It runs
// without the (staff, day) lock: a returned slot can be taken by a concurrent
// booking, in which case Book re-validates under lock and answers
// slot_unavailable.
func (e *Engine) FreeSlots(ctx context.Context, in FreeSlotsInput) ([]domain.Interval, error) {

	if in.DurationMinutes < MinDurationMinutes || in.DurationMinutes > MaxDurationMinutes {
		return nil, httperr.ErrBusiness("invalid_duration")
	}
	if in.BufferMinutes < 0 {
		return nil, httperr.ErrBusiness("invalid_buffer")
	}

	window, open, err := e.windowFor(ctx, in.StaffID, in.Date)
	if err != nil {
		return nil, err
	}
	if !open {
		return []domain.Interval{}, nil
	}

	booked, err := e.avail.BookedIntervals(ctx, in.StaffID, in.Date)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(in.DurationMinutes) * time.Minute
	buffer := time.Duration(in.BufferMinutes) * time.Minute

	return domain.FreeSlots(window, booked, duration, buffer), nil
}
