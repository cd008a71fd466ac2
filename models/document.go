package models

import "time"

type Document struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID *uint     `gorm:"index" json:"application_id,omitempty"`
	OwnerID       uint      `gorm:"not null;index" json:"owner_id"`
	Kind          string    `gorm:"type:varchar(50);not null" json:"kind"` // transcript, recommendation, identity, other
	OriginalName  string    `gorm:"type:varchar(255);not null" json:"original_name"`
	StoredPath    string    `gorm:"type:varchar(255);not null" json:"stored_path"`
	Size          int64     `gorm:"not null;default:0" json:"size"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
