package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldline/salesdesk/internal/audit"
	domain "github.com/fieldline/salesdesk/internal/domain/scheduling"
	"github.com/fieldline/salesdesk/internal/events"
	"github.com/fieldline/salesdesk/internal/httperr"
	"github.com/fieldline/salesdesk/internal/models"
	"github.com/fieldline/salesdesk/internal/reminders"
)

const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 480
)

type BookInput struct {
	SubjectType string
	SubjectID   string

	StaffID uint

	Start           time.Time
	DurationMinutes int
	BufferMinutes   int

	AppointmentType string
	Notes           string

	RemindersEnabled bool
	ReminderOffsets  []int
}

// Book validates the request, then runs check-then-insert under the
// (staff, day) lock: business-hours containment first, conflict scan second,
// persist and invalidate last. Reminders and calendar sync are dispatched
// after commit and cannot fail the booking.
func (e *Engine) Book(ctx context.Context, in BookInput) (*models.Appointment, error) {

	// Input validation happens before any lock is taken.
	if in.DurationMinutes < MinDurationMinutes || in.DurationMinutes > MaxDurationMinutes {
		return nil, httperr.ErrBusiness("invalid_duration")
	}
	if in.BufferMinutes < 0 {
		return nil, httperr.ErrBusiness("invalid_buffer")
	}
	if !in.Start.After(time.Now()) {
		return nil, httperr.ErrBusiness("start_in_past")
	}

	end := in.Start.Add(time.Duration(in.DurationMinutes+in.BufferMinutes) * time.Minute)
	candidate := domain.Interval{Start: in.Start, End: end}

	unlock := e.locks.acquire(in.StaffID, in.Start)
	defer unlock()

	window, open, err := e.windowFor(ctx, in.StaffID, in.Start)
	if err != nil {
		return nil, err
	}
	if !open || !window.Contains(candidate) {
		return nil, httperr.ErrBusiness("out_of_business_hours")
	}

	booked, err := e.avail.BookedIntervals(ctx, in.StaffID, in.Start)
	if err != nil {
		return nil, err
	}

	if conflict, found := domain.FindConflict(candidate, booked); found {
		e.logger.Debug("booking conflict",
			zap.Uint("staff_id", in.StaffID),
			zap.Time("candidate_start", candidate.Start),
			zap.Time("conflict_start", conflict.Start),
		)
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	ap := &models.Appointment{
		ID:                 uuid.New().String(),
		SubjectType:        in.SubjectType,
		SubjectID:          in.SubjectID,
		StaffID:            in.StaffID,
		ScheduledStart:     in.Start,
		DurationMinutes:    in.DurationMinutes,
		BufferMinutes:      in.BufferMinutes,
		ScheduledEnd:       end,
		Status:             string(domain.InitialStatus()),
		AppointmentType:    in.AppointmentType,
		Notes:              in.Notes,
		Version:            1,
		RemindersEnabled:   in.RemindersEnabled,
		ReminderOffsets:    reminders.FormatOffsets(in.ReminderOffsets),
		CalendarSyncStatus: events.SyncPending,
	}

	if err := e.store.Create(ctx, ap); err != nil {
		return nil, err
	}

	e.avail.Invalidate(ctx, in.StaffID, in.Start)

	if err := e.reminders.Schedule(ctx, ap, in.ReminderOffsets); err != nil {
		e.logger.Error("failed to schedule reminders",
			zap.String("appointment_id", ap.ID), zap.Error(err))
	}

	e.sync.Dispatch(events.Event{Operation: events.OpBooked, Appointment: *ap})

	e.audit.Dispatch(audit.Event{
		StaffID:  &in.StaffID,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return ap, nil
}
