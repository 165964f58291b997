package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	scheduling "github.com/fieldline/salesdesk/internal/domain/scheduling"
	"github.com/fieldline/salesdesk/internal/httperr"
	"github.com/fieldline/salesdesk/internal/models"
)

type ReminderGormStore struct {
	db *gorm.DB
}

func NewReminderGormStore(db *gorm.DB) *ReminderGormStore {
	return &ReminderGormStore{db: db}
}

func (r *ReminderGormStore) CreateEntries(
	ctx context.Context,
	entries []models.ReminderEntry,
) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *ReminderGormStore) LoadEntry(
	ctx context.Context,
	id string,
) (*models.ReminderEntry, error) {

	var entry models.ReminderEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("reminder_not_found")
		}
		return nil, err
	}
	return &entry, nil
}

func (r *ReminderGormStore) MarkEntry(
	ctx context.Context,
	id string,
	status string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.ReminderEntry{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *ReminderGormStore) CancelPendingForAppointment(
	ctx context.Context,
	appointmentID string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.ReminderEntry{}).
		Where("appointment_id = ? AND status = ?", appointmentID, models.ReminderPending).
		Update("status", models.ReminderCancelled).Error
}

// Compile-time check
var _ scheduling.ReminderStore = (*ReminderGormStore)(nil)
