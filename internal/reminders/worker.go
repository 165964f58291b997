package reminders

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	scheduling "github.com/fieldline/salesdesk/internal/domain/scheduling"
	"github.com/fieldline/salesdesk/internal/models"
)

// Worker consumes due reminder tasks. It re-checks the entry and the
// appointment at fire time: cancelled entries and appointments that are no
// longer active are skipped silently.
type Worker struct {
	srv       *asynq.Server
	reminders scheduling.ReminderStore
	store     scheduling.Store
	notifier  Notifier
	logger    *zap.Logger
}

func NewWorker(
	redisOpts asynq.RedisClientOpt,
	reminders scheduling.ReminderStore,
	store scheduling.Store,
	notifier Notifier,
	logger *zap.Logger,
) *Worker {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	return &Worker{
		srv:       srv,
		reminders: reminders,
		store:     store,
		notifier:  notifier,
		logger:    logger,
	}
}

// Start runs the worker in the background.
func (w *Worker) Start() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDispatchReminder, w.handleDispatch)

	go func() {
		w.logger.Info("starting reminder dispatch worker")
		if err := w.srv.Run(mux); err != nil {
			w.logger.Error("reminder worker stopped", zap.Error(err))
		}
	}()
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func (w *Worker) handleDispatch(ctx context.Context, task *asynq.Task) error {
	var p DispatchPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		w.logger.Error("invalid reminder payload", zap.Error(err))
		return err
	}

	entry, err := w.reminders.LoadEntry(ctx, p.ReminderID)
	if err != nil {
		w.logger.Warn("reminder entry missing at fire time",
			zap.String("reminder_id", p.ReminderID), zap.Error(err))
		return nil
	}
	if entry.Status != models.ReminderPending {
		return nil
	}

	ap, err := w.store.Load(ctx, entry.AppointmentID)
	if err != nil {
		w.logger.Warn("appointment missing at fire time",
			zap.String("appointment_id", entry.AppointmentID), zap.Error(err))
		return nil
	}

	if !scheduling.Status(ap.Status).Active() {
		// Cancelled/rescheduled/completed meanwhile; retire the entry.
		if err := w.reminders.MarkEntry(ctx, entry.ID, models.ReminderCancelled); err != nil {
			w.logger.Error("failed to retire reminder",
				zap.String("reminder_id", entry.ID), zap.Error(err))
		}
		return nil
	}

	status := models.ReminderSent
	if sendErr := w.notifier.Send(ctx, ap, entry); sendErr != nil {
		w.logger.Error("reminder delivery failed",
			zap.String("reminder_id", entry.ID), zap.Error(sendErr))
		status = models.ReminderFailed
	}

	if err := w.reminders.MarkEntry(ctx, entry.ID, status); err != nil {
		w.logger.Error("failed to record reminder outcome",
			zap.String("reminder_id", entry.ID), zap.Error(err))
	}

	return nil
}
