package models

import "time"

// BusinessHours holds one weekday window for a staff member. A missing or
// inactive row means closed that day.
type BusinessHours struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index:idx_business_hours_staff_weekday,unique" json:"staff_id"`

	Weekday int `gorm:"index:idx_business_hours_staff_weekday,unique" json:"weekday"`

	OpenTime  string `gorm:"size:5" json:"open_time"`
	CloseTime string `gorm:"size:5" json:"close_time"`
	Active    bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
