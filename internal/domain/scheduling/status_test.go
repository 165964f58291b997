package scheduling

import (
	"testing"
	"time"

	"github.com/fieldline/salesdesk/internal/httperr"
	"github.com/fieldline/salesdesk/internal/models"
)

func TestStatusActiveAndTerminal(t *testing.T) {
	active := []Status{StatusScheduled, StatusConfirmed, StatusInProgress}
	terminal := []Status{StatusCompleted, StatusCancelled, StatusRescheduled, StatusNoShow}

	for _, s := range active {
		if !s.Active() || s.Terminal() {
			t.Fatalf("%s must be active and not terminal", s)
		}
	}
	for _, s := range terminal {
		if s.Active() || !s.Terminal() {
			t.Fatalf("%s must be terminal and not active", s)
		}
	}
}

func TestCancelGuards(t *testing.T) {
	if err := CanCancel(StatusScheduled); err != nil {
		t.Fatalf("cancel from scheduled: %v", err)
	}
	if err := CanCancel(StatusConfirmed); err != nil {
		t.Fatalf("cancel from confirmed: %v", err)
	}

	if err := CanCancel(StatusInProgress); !httperr.IsBusiness(err, "invalid_transition") {
		t.Fatalf("cancel from in_progress = %v, want invalid_transition", err)
	}
	if err := CanCancel(StatusCancelled); !httperr.IsBusiness(err, "already_terminal") {
		t.Fatalf("cancel from cancelled = %v, want already_terminal", err)
	}
	if err := CanCancel(StatusRescheduled); !httperr.IsBusiness(err, "already_terminal") {
		t.Fatalf("cancel from rescheduled = %v, want already_terminal", err)
	}
}

func TestLifecycleGuards(t *testing.T) {
	if err := CanConfirm(StatusScheduled); err != nil {
		t.Fatalf("confirm from scheduled: %v", err)
	}
	if err := CanConfirm(StatusConfirmed); !httperr.IsBusiness(err, "invalid_transition") {
		t.Fatalf("confirm twice = %v, want invalid_transition", err)
	}

	if err := CanStart(StatusConfirmed); err != nil {
		t.Fatalf("start from confirmed: %v", err)
	}
	if err := CanStart(StatusScheduled); !httperr.IsBusiness(err, "invalid_transition") {
		t.Fatalf("start from scheduled = %v, want invalid_transition", err)
	}

	if err := CanComplete(StatusInProgress); err != nil {
		t.Fatalf("complete from in_progress: %v", err)
	}
	if err := CanComplete(StatusConfirmed); err != nil {
		t.Fatalf("complete from confirmed: %v", err)
	}
	if err := CanComplete(StatusScheduled); !httperr.IsBusiness(err, "invalid_transition") {
		t.Fatalf("complete from scheduled = %v, want invalid_transition", err)
	}

	if err := CanReschedule(StatusCompleted); !httperr.IsBusiness(err, "invalid_transition") {
		t.Fatalf("reschedule from completed = %v, want invalid_transition", err)
	}
}

func TestCanMarkNoShow(t *testing.T) {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	if err := CanMarkNoShow(StatusScheduled, start, start.Add(time.Hour)); err != nil {
		t.Fatalf("no-show after start: %v", err)
	}
	if err := CanMarkNoShow(StatusScheduled, start, start.Add(-time.Minute)); !httperr.IsBusiness(err, "appointment_not_started") {
		t.Fatalf("no-show before start = %v, want appointment_not_started", err)
	}
	if err := CanMarkNoShow(StatusInProgress, start, start.Add(time.Hour)); !httperr.IsBusiness(err, "invalid_transition") {
		t.Fatalf("no-show from in_progress = %v, want invalid_transition", err)
	}
}

func TestCancelSetsFields(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusScheduled)}

	if err := Cancel(ap, "client asked", now); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ap.Status != string(StatusCancelled) {
		t.Fatalf("status = %s, want cancelled", ap.Status)
	}
	if ap.CancelReason != "client asked" {
		t.Fatalf("cancel reason = %q", ap.CancelReason)
	}
	if ap.CancelledAt == nil || !ap.CancelledAt.Equal(now) {
		t.Fatalf("cancelled_at = %v, want %v", ap.CancelledAt, now)
	}
}

func TestCompleteSetsFields(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusInProgress)}

	if err := Complete(ap, "demo went well", now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if ap.Status != string(StatusCompleted) {
		t.Fatalf("status = %s, want completed", ap.Status)
	}
	if ap.OutcomeNotes != "demo went well" {
		t.Fatalf("outcome notes = %q", ap.OutcomeNotes)
	}
	if ap.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}
}
