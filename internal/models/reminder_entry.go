package models

import "time"

const (
	ReminderPending   = "pending"
	ReminderSent      = "sent"
	ReminderFailed    = "failed"
	ReminderCancelled = "cancelled"
)

// ReminderEntry is one computed reminder for an appointment. Delivery is done
// by the dispatch worker; the engine only tracks status here.
type ReminderEntry struct {
	ID            string `gorm:"primaryKey;size:36" json:"id"`
	AppointmentID string `gorm:"size:36;index" json:"appointment_id"`

	OffsetMinutes int       `json:"offset_minutes"`
	FireAt        time.Time `json:"fire_at"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
