package events

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fieldline/salesdesk/internal/models"
)

const (
	OpBooked      = "booked"
	OpRescheduled = "rescheduled"
	OpCancelled   = "cancelled"
)

const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncFailed  = "failed"
)

// Event carries an appointment snapshot to the external calendar.
type Event struct {
	Operation   string
	Appointment models.Appointment
}

// CalendarSync is the external calendar boundary. Sync outcome is recorded as
// metadata on the appointment and never affects the booking result.
type CalendarSync interface {
	Push(ctx context.Context, ev Event) error
}

// LogCalendarSync is the default no-op backend.
type LogCalendarSync struct {
	logger *zap.Logger
}

func NewLogCalendarSync(logger *zap.Logger) *LogCalendarSync {
	return &LogCalendarSync{logger: logger}
}

func (s *LogCalendarSync) Push(ctx context.Context, ev Event) error {
	s.logger.Debug("calendar sync event",
		zap.String("operation", ev.Operation),
		zap.String("appointment_id", ev.Appointment.ID),
	)
	return nil
}

// Dispatcher hands sync events to the backend off the request path.
type Dispatcher struct {
	sync   CalendarSync
	db     *gorm.DB
	logger *zap.Logger
	queue  chan Event
}

func NewDispatcher(sync CalendarSync, db *gorm.DB, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sync:   sync,
		db:     db,
		logger: logger,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		status := SyncSynced
		if err := d.sync.Push(context.Background(), ev); err != nil {
			d.logger.Warn("calendar sync failed",
				zap.String("appointment_id", ev.Appointment.ID), zap.Error(err))
			status = SyncFailed
		}

		// Non-authoritative metadata write; deliberately outside the
		// version CAS so it cannot race a real mutation into failure.
		if err := d.db.Model(&models.Appointment{}).
			Where("id = ?", ev.Appointment.ID).
			Update("calendar_sync_status", status).Error; err != nil {
			d.logger.Warn("failed to record calendar sync status",
				zap.String("appointment_id", ev.Appointment.ID), zap.Error(err))
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// Queue full: drop rather than block a booking.
		d.logger.Warn("calendar sync queue full, dropping event",
			zap.String("appointment_id", ev.Appointment.ID))
	}
}
