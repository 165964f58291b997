package scheduling

import (
	"context"
	"time"

	"github.com/fieldline/salesdesk/internal/models"
)

// Store is the durable appointment record. Save and SaveRescheduled perform a
// compare-and-swap on the version stamp and fail with a stale_version
// business error when the row moved underneath the caller.
type Store interface {
	// -------- Appointment --------
	Load(ctx context.Context, id string) (*models.Appointment, error)

	LoadActiveForStaffOnDate(
		ctx context.Context,
		staffID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Appointment, error)

	Create(ctx context.Context, ap *models.Appointment) error

	Save(
		ctx context.Context,
		ap *models.Appointment,
		expectedVersion int64,
	) error

	// SaveRescheduled commits the original's terminal transition and the
	// successor's creation in one transaction, together with the audit row.
	SaveRescheduled(
		ctx context.Context,
		original *models.Appointment,
		expectedVersion int64,
		successor *models.Appointment,
		audit *models.RescheduleAudit,
	) error

	// -------- Listing --------
	ListForStaffBetween(
		ctx context.Context,
		staffID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Business hours --------
	GetBusinessHours(
		ctx context.Context,
		staffID uint,
		weekday int,
	) (*models.BusinessHours, error)
}

// ReminderStore tracks computed reminder entries.
type ReminderStore interface {
	CreateEntries(ctx context.Context, entries []models.ReminderEntry) error
	LoadEntry(ctx context.Context, id string) (*models.ReminderEntry, error)
	MarkEntry(ctx context.Context, id string, status string) error
	CancelPendingForAppointment(ctx context.Context, appointmentID string) error
}
