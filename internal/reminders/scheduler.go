package reminders

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	scheduling "github.com/fieldline/salesdesk/internal/domain/scheduling"
	"github.com/fieldline/salesdesk/internal/models"
)

// Scheduler computes reminder entries for an appointment and hands them to
// the queue. Delivery itself happens in the dispatch worker; a queue failure
// never fails the booking.
type Scheduler struct {
	store  scheduling.ReminderStore
	client *asynq.Client
	logger *zap.Logger
}

func NewScheduler(
	store scheduling.ReminderStore,
	client *asynq.Client,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		store:  store,
		client: client,
		logger: logger,
	}
}

// ComputeEntries derives pending entries from the appointment's offsets.
// Offsets whose fire time already passed are discarded, not scheduled.
func ComputeEntries(
	ap *models.Appointment,
	offsets []int,
	now time.Time,
) []models.ReminderEntry {

	if !ap.RemindersEnabled {
		return nil
	}

	var entries []models.ReminderEntry
	for _, offset := range offsets {
		if offset < 0 {
			continue
		}
		fireAt := ap.ScheduledStart.Add(-time.Duration(offset) * time.Minute)
		if !fireAt.After(now) {
			continue
		}
		entries = append(entries, models.ReminderEntry{
			ID:            uuid.New().String(),
			AppointmentID: ap.ID,
			OffsetMinutes: offset,
			FireAt:        fireAt,
			Status:        models.ReminderPending,
		})
	}

	return entries
}

// Schedule persists the computed entries and enqueues one delayed task per
// entry.
func (s *Scheduler) Schedule(
	ctx context.Context,
	ap *models.Appointment,
	offsets []int,
) error {

	entries := ComputeEntries(ap, offsets, time.Now())
	if len(entries) == 0 {
		return nil
	}

	if err := s.store.CreateEntries(ctx, entries); err != nil {
		return err
	}

	for _, entry := range entries {
		task, opts, err := NewDispatchTask(entry)
		if err != nil {
			s.logger.Error("failed to build reminder task",
				zap.String("reminder_id", entry.ID), zap.Error(err))
			continue
		}
		if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
			s.logger.Error("failed to enqueue reminder",
				zap.String("reminder_id", entry.ID), zap.Error(err))
		}
	}

	return nil
}

// CancelAll marks every pending entry for the appointment cancelled. Already
// enqueued tasks notice the status change at fire time and skip delivery.
func (s *Scheduler) CancelAll(ctx context.Context, appointmentID string) error {
	return s.store.CancelPendingForAppointment(ctx, appointmentID)
}

// ParseOffsets reads a stored "1440,60" offsets string.
func ParseOffsets(raw string) []int {
	if raw == "" {
		return nil
	}
	var offsets []int
	for _, part := range strings.Split(raw, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			offsets = append(offsets, n)
		}
	}
	return offsets
}

// FormatOffsets renders offsets for storage on the appointment row.
func FormatOffsets(offsets []int) string {
	parts := make([]string, 0, len(offsets))
	for _, offset := range offsets {
		parts = append(parts, strconv.Itoa(offset))
	}
	return strings.Join(parts, ",")
}
