package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	scheduling "github.com/fieldline/salesdesk/internal/domain/scheduling"
	"github.com/fieldline/salesdesk/internal/httperr"
	"github.com/fieldline/salesdesk/internal/models"
)

type AppointmentGormStore struct {
	db *gorm.DB
}

func NewAppointmentGormStore(db *gorm.DB) *AppointmentGormStore {
	return &AppointmentGormStore{db: db}
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormStore) Load(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormStore) LoadActiveForStaffOnDate(
	ctx context.Context,
	staffID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "scheduled_start", "scheduled_end", "status").
		Where(
			"staff_id = ? AND status IN ? AND scheduled_start >= ? AND scheduled_start < ?",
			staffID, scheduling.ActiveStatuses, dayStart, dayEnd,
		).
		Order("scheduled_start ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *AppointmentGormStore) Create(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

// Save commits the appointment's mutable fields with a compare-and-swap on
// the version column. Zero rows affected means the row either moved under us
// or is gone.
func (r *AppointmentGormStore) Save(
	ctx context.Context,
	ap *models.Appointment,
	expectedVersion int64,
) error {
	return r.casUpdate(r.db.WithContext(ctx), ap, expectedVersion)
}

func (r *AppointmentGormStore) casUpdate(
	tx *gorm.DB,
	ap *models.Appointment,
	expectedVersion int64,
) error {

	res := tx.Model(&models.Appointment{}).
		Where("id = ? AND version = ?", ap.ID, expectedVersion).
		Updates(map[string]any{
			"scheduled_start":   ap.ScheduledStart,
			"duration_minutes":  ap.DurationMinutes,
			"buffer_minutes":    ap.BufferMinutes,
			"scheduled_end":     ap.ScheduledEnd,
			"status":            ap.Status,
			"rescheduled_from":  ap.RescheduledFrom,
			"rescheduled_to":    ap.RescheduledTo,
			"reminders_enabled": ap.RemindersEnabled,
			"reminder_offsets":  ap.ReminderOffsets,
			"notes":             ap.Notes,
			"outcome_notes":     ap.OutcomeNotes,
			"cancel_reason":     ap.CancelReason,
			"cancelled_at":      ap.CancelledAt,
			"completed_at":      ap.CompletedAt,
			"version":           expectedVersion + 1,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		tx.Model(&models.Appointment{}).Where("id = ?", ap.ID).Count(&count)
		if count == 0 {
			return httperr.ErrBusiness("appointment_not_found")
		}
		return httperr.ErrBusiness("stale_version")
	}

	ap.Version = expectedVersion + 1
	return nil
}

func (r *AppointmentGormStore) SaveRescheduled(
	ctx context.Context,
	original *models.Appointment,
	expectedVersion int64,
	successor *models.Appointment,
	audit *models.RescheduleAudit,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.casUpdate(tx, original, expectedVersion); err != nil {
			return err
		}
		if err := tx.Create(successor).Error; err != nil {
			return err
		}
		return tx.Create(audit).Error
	})
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormStore) ListForStaffBetween(
	ctx context.Context,
	staffID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"staff_id = ? AND scheduled_start >= ? AND scheduled_start < ?",
			staffID, start, end,
		).
		Order("scheduled_start ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------
// Business hours
// --------------------------------------------------

func (r *AppointmentGormStore) GetBusinessHours(
	ctx context.Context,
	staffID uint,
	weekday int,
) (*models.BusinessHours, error) {

	var wh models.BusinessHours
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND weekday = ?", staffID, weekday).
		First(&wh).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &wh, nil
}

// Compile-time check
var _ scheduling.Store = (*AppointmentGormStore)(nil)
