package models

import "time"

// RescheduleAudit is an append-only record of an old interval giving way to a
// new one.
type RescheduleAudit struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OriginalID  string `gorm:"size:36;index" json:"original_id"`
	SuccessorID string `gorm:"size:36" json:"successor_id"`
	StaffID     uint   `json:"staff_id"`

	OldStart time.Time `json:"old_start"`
	OldEnd   time.Time `json:"old_end"`
	NewStart time.Time `json:"new_start"`
	NewEnd   time.Time `json:"new_end"`

	CreatedAt time.Time `json:"created_at"`
}
