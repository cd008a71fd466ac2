package models

import "time"

// Notification dimiliki oleh satu user dan tidak pernah dipindah tangan.
// ReadAt bersifat write-once: hanya diisi lewat mark-read, tidak pernah di-reset.
type Notification struct {
	ID        string     `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Title     string     `gorm:"type:varchar(100);not null" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Type      string     `gorm:"type:varchar(50)" json:"type"` // tag bebas untuk styling client (info, success, dsb.)
	ActionURL string     `gorm:"type:varchar(255)" json:"action_url,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}
