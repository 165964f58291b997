package scheduling

import (
	"context"

	"go.uber.org/zap"

	"github.com/fieldline/salesdesk/internal/audit"
	domain "github.com/fieldline/salesdesk/internal/domain/scheduling"
	"github.com/fieldline/salesdesk/internal/events"
	"github.com/fieldline/salesdesk/internal/models"
	"github.com/fieldline/salesdesk/internal/timezone"
)

// Confirm moves a scheduled appointment to confirmed.
func (e *Engine) Confirm(ctx context.Context, id string) (*models.Appointment, error) {
	return e.transition(ctx, id, "appointment_confirmed", false, func(ap *models.Appointment) error {
		return domain.Confirm(ap)
	})
}

// Start moves a confirmed appointment to in progress.
func (e *Engine) Start(ctx context.Context, id string) (*models.Appointment, error) {
	return e.transition(ctx, id, "appointment_started", false, func(ap *models.Appointment) error {
		return domain.Start(ap)
	})
}

// Complete closes out a confirmed or in-progress appointment.
func (e *Engine) Complete(ctx context.Context, id string, outcomeNotes string) (*models.Appointment, error) {
	ap, err := e.transition(ctx, id, "appointment_completed", true, func(ap *models.Appointment) error {
		return domain.Complete(ap, outcomeNotes, timezone.Now())
	})
	if err != nil {
		return nil, err
	}

	// Completed before a reminder fired means that reminder is dead.
	if err := e.reminders.CancelAll(ctx, ap.ID); err != nil {
		e.logger.Error("failed to cancel reminders",
			zap.String("appointment_id", ap.ID), zap.Error(err))
	}

	return ap, nil
}

// Cancel releases the slot. Cancelling an already terminal appointment
// reports already_terminal and leaves state untouched.
func (e *Engine) Cancel(ctx context.Context, id string, reason string) (*models.Appointment, error) {
	ap, err := e.transition(ctx, id, "appointment_cancelled", true, func(ap *models.Appointment) error {
		return domain.Cancel(ap, reason, timezone.Now())
	})
	if err != nil {
		return nil, err
	}

	if err := e.reminders.CancelAll(ctx, ap.ID); err != nil {
		e.logger.Error("failed to cancel reminders",
			zap.String("appointment_id", ap.ID), zap.Error(err))
	}

	e.sync.Dispatch(events.Event{Operation: events.OpCancelled, Appointment: *ap})

	return ap, nil
}

// MarkNoShow records that the subject never turned up. Only valid once the
// start time has passed without completion.
func (e *Engine) MarkNoShow(ctx context.Context, id string) (*models.Appointment, error) {
	ap, err := e.transition(ctx, id, "appointment_no_show", true, func(ap *models.Appointment) error {
		return domain.MarkNoShow(ap, timezone.Now())
	})
	if err != nil {
		return nil, err
	}

	if err := e.reminders.CancelAll(ctx, ap.ID); err != nil {
		e.logger.Error("failed to cancel reminders",
			zap.String("appointment_id", ap.ID), zap.Error(err))
	}

	return ap, nil
}

// transition runs one status change under the appointment's (staff, day)
// lock with a version CAS at commit. freesSlot says whether the change
// removes the appointment from the active set and so must invalidate the
// availability cache.
func (e *Engine) transition(
	ctx context.Context,
	id string,
	action string,
	freesSlot bool,
	apply func(ap *models.Appointment) error,
) (*models.Appointment, error) {

	ap, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := e.locks.acquire(ap.StaffID, ap.ScheduledStart)
	defer unlock()

	// Re-load under lock.
	ap, err = e.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(ap); err != nil {
		return nil, err
	}

	if err := e.store.Save(ctx, ap, ap.Version); err != nil {
		return nil, err
	}

	if freesSlot {
		e.avail.Invalidate(ctx, ap.StaffID, ap.ScheduledStart)
	}

	e.audit.Dispatch(audit.Event{
		StaffID:  &ap.StaffID,
		Action:   action,
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return ap, nil
}
