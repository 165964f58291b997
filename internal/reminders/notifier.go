package reminders

import (
	"context"

	"go.uber.org/zap"

	"github.com/fieldline/salesdesk/internal/models"
)

// Notifier is the delivery channel boundary. Real SMS/email integrations
// live behind this interface; the scheduler only records the outcome.
type Notifier interface {
	Send(ctx context.Context, ap *models.Appointment, entry *models.ReminderEntry) error
}

// LogNotifier is the default delivery backend: it just logs what a real
// channel would send.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(
	ctx context.Context,
	ap *models.Appointment,
	entry *models.ReminderEntry,
) error {
	n.logger.Info("reminder due",
		zap.String("appointment_id", ap.ID),
		zap.String("subject_type", ap.SubjectType),
		zap.String("subject_id", ap.SubjectID),
		zap.Uint("staff_id", ap.StaffID),
		zap.Time("scheduled_start", ap.ScheduledStart),
		zap.Int("offset_minutes", entry.OffsetMinutes),
	)
	return nil
}
