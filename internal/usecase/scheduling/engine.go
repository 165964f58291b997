package scheduling

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fieldline/salesdesk/internal/audit"
	domain "github.com/fieldline/salesdesk/internal/domain/scheduling"
	"github.com/fieldline/salesdesk/internal/events"
	"github.com/fieldline/salesdesk/internal/models"
)

// Availability supplies the current booked intervals for a (staff, date) and
// drops the cache entry after a committed mutation.
type Availability interface {
	BookedIntervals(ctx context.Context, staffID uint, date time.Time) ([]domain.Interval, error)
	Invalidate(ctx context.Context, staffID uint, date time.Time)
}

// ReminderScheduler computes and retires reminder entries.
type ReminderScheduler interface {
	Schedule(ctx context.Context, ap *models.Appointment, offsets []int) error
	CancelAll(ctx context.Context, appointmentID string) error
}

type SyncDispatcher interface {
	Dispatch(ev events.Event)
}

type AuditDispatcher interface {
	Dispatch(ev audit.Event)
}

// Engine orchestrates every appointment mutation. All check-then-write
// sequences run under the per-(staff, day) lock, which is what upholds the
// no-overlap invariant against concurrent callers.
type Engine struct {
	store     domain.Store
	avail     Availability
	reminders ReminderScheduler
	sync      SyncDispatcher
	audit     AuditDispatcher
	locks     *resourceDayLocks
	logger    *zap.Logger

	// Company-wide fallback window for staff without configured hours.
	defaultOpenTime  string
	defaultCloseTime string
}

func NewEngine(
	store domain.Store,
	avail Availability,
	reminders ReminderScheduler,
	sync SyncDispatcher,
	auditDisp AuditDispatcher,
	logger *zap.Logger,
	defaultOpenTime string,
	defaultCloseTime string,
) *Engine {
	return &Engine{
		store:            store,
		avail:            avail,
		reminders:        reminders,
		sync:             sync,
		audit:            auditDisp,
		locks:            newResourceDayLocks(),
		logger:           logger,
		defaultOpenTime:  defaultOpenTime,
		defaultCloseTime: defaultCloseTime,
	}
}

// windowFor resolves the open window for a staff member on date. A missing
// row falls back to the shared company default; an inactive row means closed.
func (e *Engine) windowFor(
	ctx context.Context,
	staffID uint,
	date time.Time,
) (domain.Window, bool, error) {

	wh, err := e.store.GetBusinessHours(ctx, staffID, int(date.Weekday()))
	if err != nil {
		return domain.Window{}, false, err
	}

	if wh == nil {
		window, ok := domain.BuildWindow(date, e.defaultOpenTime, e.defaultCloseTime)
		return window, ok, nil
	}

	window, ok := domain.WindowFromHours(wh, date)
	return window, ok, nil
}
