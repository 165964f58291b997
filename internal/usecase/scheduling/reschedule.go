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

type RescheduleInput struct {
	AppointmentID string
	NewStart      time.Time

	// Optional; zero keeps the original duration.
	NewDurationMinutes int
}

// Reschedule closes the original appointment as rescheduled and creates the
// linked successor in one transaction. Both (staff, day) locks are held in a
// fixed global order, and the original's version is CAS-checked at commit, so
// a concurrent cancel or reschedule loses with stale_version instead of
// corrupting the chain.
func (e *Engine) Reschedule(ctx context.Context, in RescheduleInput) (*models.Appointment, error) {

	if in.NewDurationMinutes != 0 &&
		(in.NewDurationMinutes < MinDurationMinutes || in.NewDurationMinutes > MaxDurationMinutes) {
		return nil, httperr.ErrBusiness("invalid_duration")
	}
	if !in.NewStart.After(time.Now()) {
		return nil, httperr.ErrBusiness("start_in_past")
	}

	// First load outside the lock just to learn the resource and old date.
	original, err := e.store.Load(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	unlock := e.locks.acquirePair(
		original.StaffID, original.ScheduledStart,
		original.StaffID, in.NewStart,
	)
	defer unlock()

	// Re-load under lock; the first read may already be stale.
	original, err = e.store.Load(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanReschedule(domain.Status(original.Status)); err != nil {
		return nil, err
	}

	duration := original.DurationMinutes
	if in.NewDurationMinutes != 0 {
		duration = in.NewDurationMinutes
	}
	buffer := original.BufferMinutes

	newEnd := in.NewStart.Add(time.Duration(duration+buffer) * time.Minute)
	candidate := domain.Interval{Start: in.NewStart, End: newEnd}

	window, open, err := e.windowFor(ctx, original.StaffID, in.NewStart)
	if err != nil {
		return nil, err
	}
	if !open || !window.Contains(candidate) {
		return nil, httperr.ErrBusiness("out_of_business_hours")
	}

	booked, err := e.avail.BookedIntervals(ctx, original.StaffID, in.NewStart)
	if err != nil {
		return nil, err
	}

	// The original's own interval must not block its replacement.
	own := domain.Interval{Start: original.ScheduledStart, End: original.ScheduledEnd}
	booked = excludeInterval(booked, own)

	if conflict, found := domain.FindConflict(candidate, booked); found {
		e.logger.Debug("reschedule conflict",
			zap.String("appointment_id", original.ID),
			zap.Time("conflict_start", conflict.Start),
		)
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	successor := &models.Appointment{
		ID:                 uuid.New().String(),
		SubjectType:        original.SubjectType,
		SubjectID:          original.SubjectID,
		StaffID:            original.StaffID,
		ScheduledStart:     in.NewStart,
		DurationMinutes:    duration,
		BufferMinutes:      buffer,
		ScheduledEnd:       newEnd,
		Status:             string(domain.StatusScheduled),
		AppointmentType:    original.AppointmentType,
		Notes:              original.Notes,
		RescheduledFrom:    &original.ID,
		Version:            1,
		RemindersEnabled:   original.RemindersEnabled,
		ReminderOffsets:    original.ReminderOffsets,
		CalendarSyncStatus: events.SyncPending,
	}

	expectedVersion := original.Version
	original.Status = string(domain.StatusRescheduled)
	original.RescheduledTo = &successor.ID

	auditRow := &models.RescheduleAudit{
		OriginalID:  original.ID,
		SuccessorID: successor.ID,
		StaffID:     original.StaffID,
		OldStart:    original.ScheduledStart,
		OldEnd:      original.ScheduledEnd,
		NewStart:    successor.ScheduledStart,
		NewEnd:      successor.ScheduledEnd,
	}

	if err := e.store.SaveRescheduled(ctx, original, expectedVersion, successor, auditRow); err != nil {
		return nil, err
	}

	e.avail.Invalidate(ctx, original.StaffID, original.ScheduledStart)
	e.avail.Invalidate(ctx, original.StaffID, successor.ScheduledStart)

	if err := e.reminders.CancelAll(ctx, original.ID); err != nil {
		e.logger.Error("failed to cancel reminders",
			zap.String("appointment_id", original.ID), zap.Error(err))
	}
	if err := e.reminders.Schedule(ctx, successor, reminders.ParseOffsets(successor.ReminderOffsets)); err != nil {
		e.logger.Error("failed to schedule reminders",
			zap.String("appointment_id", successor.ID), zap.Error(err))
	}

	e.sync.Dispatch(events.Event{Operation: events.OpRescheduled, Appointment: *successor})

	e.audit.Dispatch(audit.Event{
		StaffID:  &original.StaffID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: original.ID,
		Metadata: map[string]any{
			"successor_id": successor.ID,
			"old_start":    auditRow.OldStart,
			"new_start":    auditRow.NewStart,
		},
	})

	return successor, nil
}

func excludeInterval(ivs []domain.Interval, drop domain.Interval) []domain.Interval {
	out := ivs[:0:0]
	for _, iv := range ivs {
		if iv.Start.Equal(drop.Start) && iv.End.Equal(drop.End) {
			continue
		}
		out = append(out, iv)
	}
	return out
}
