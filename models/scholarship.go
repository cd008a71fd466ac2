package models

import "time"

const (
	ScholarshipDraft  = "draft"
	ScholarshipOpen   = "open"
	ScholarshipClosed = "closed"
)

type Scholarship struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Provider    string    `gorm:"type:varchar(255)" json:"provider"`
	Amount      float64   `gorm:"type:decimal(12,2);not null;default:0.00" json:"amount"`
	Quota       int       `gorm:"not null;default:0" json:"quota"`
	OpenAt      time.Time `json:"open_at"`
	CloseAt     time.Time `json:"close_at"`
	Status      string    `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
