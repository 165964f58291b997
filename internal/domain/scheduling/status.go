package scheduling

import (
	"time"

	"github.com/fieldline/salesdesk/internal/httperr"
	"github.com/fieldline/salesdesk/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusConfirmed   Status = "confirmed"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
	StatusNoShow      Status = "no_show"
)

// ActiveStatuses are the statuses that occupy calendar time. Only these
// participate in conflict checks.
var ActiveStatuses = []string{
	string(StatusScheduled),
	string(StatusConfirmed),
	string(StatusInProgress),
}

func (s Status) Active() bool {
	return s == StatusScheduled || s == StatusConfirmed || s == StatusInProgress
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled ||
		s == StatusRescheduled || s == StatusNoShow
}

func InitialStatus() Status {
	return StatusScheduled
}

// ===============================
// Transition Guards
// ===============================

func CanConfirm(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_transition")
	}
	return nil
}

func CanStart(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_transition")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed && current != StatusInProgress {
		return httperr.ErrBusiness("invalid_transition")
	}
	return nil
}

func CanCancel(current Status) error {
	switch current {
	case StatusScheduled, StatusConfirmed:
		return nil
	case StatusInProgress:
		return httperr.ErrBusiness("invalid_transition")
	default:
		// Already in a terminal state; cancelling again is reported, not crashed.
		return httperr.ErrBusiness("already_terminal")
	}
}

func CanReschedule(current Status) error {
	if current != StatusScheduled && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_transition")
	}
	return nil
}

func CanMarkNoShow(current Status, start, now time.Time) error {
	if current != StatusScheduled && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_transition")
	}
	if !now.After(start) {
		return httperr.ErrBusiness("appointment_not_started")
	}
	return nil
}

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusConfirmed)
	return nil
}

func Start(ap *models.Appointment) error {
	if err := CanStart(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusInProgress)
	return nil
}

func Complete(ap *models.Appointment, outcomeNotes string, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusCompleted)
	ap.OutcomeNotes = outcomeNotes
	ap.CompletedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusCancelled)
	ap.CancelReason = reason
	ap.CancelledAt = &now
	return nil
}

func MarkNoShow(ap *models.Appointment, now time.Time) error {
	if err := CanMarkNoShow(Status(ap.Status), ap.ScheduledStart, now); err != nil {
		return err
	}
	ap.Status = string(StatusNoShow)
	return nil
}
