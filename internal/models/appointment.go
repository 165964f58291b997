package models

import "time"

// Appointment is the central scheduling record. ScheduledEnd always includes
// the buffer, so conflict checks can compare stored intervals directly.
// Rows are never deleted; cancel and reschedule are status transitions.
type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// Opaque business subject (lead, customer or project). The scheduler
	// never interprets it, only carries it.
	SubjectType string `gorm:"size:20;index:idx_appointments_subject" json:"subject_type"`
	SubjectID   string `gorm:"size:36;index:idx_appointments_subject" json:"subject_id"`

	StaffID uint      `gorm:"index" json:"staff_id"`
	Staff   StaffUser `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"staff"`

	ScheduledStart  time.Time `json:"scheduled_start"`
	DurationMinutes int       `json:"duration_minutes"`
	BufferMinutes   int       `json:"buffer_minutes"`
	ScheduledEnd    time.Time `json:"scheduled_end"`

	Status          string `gorm:"size:20;default:'scheduled'" json:"status"`
	AppointmentType string `gorm:"size:50" json:"appointment_type"`

	RescheduledFrom *string `gorm:"size:36" json:"rescheduled_from"`
	RescheduledTo   *string `gorm:"size:36" json:"rescheduled_to"`

	// Optimistic concurrency stamp; every committed mutation bumps it.
	Version int64 `gorm:"default:1" json:"version"`

	RemindersEnabled bool   `json:"reminders_enabled"`
	ReminderOffsets  string `gorm:"size:100" json:"reminder_offsets"`

	CalendarSyncStatus string `gorm:"size:20" json:"calendar_sync_status"`

	Notes        string `gorm:"size:255" json:"notes"`
	OutcomeNotes string `gorm:"size:255" json:"outcome_notes"`
	CancelReason string `gorm:"size:255" json:"cancel_reason"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
