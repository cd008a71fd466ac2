package models

import "time"

// ServiceLog mencatat jam kegiatan pelayanan masyarakat seorang student.
type ServiceLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"not null;index" json:"student_id"`
	Student     User      `gorm:"foreignKey:StudentID" json:"student"`
	Activity    string    `gorm:"type:varchar(255);not null" json:"activity"`
	Hours       float64   `gorm:"type:decimal(5,2);not null" json:"hours"`
	PerformedOn time.Time `gorm:"not null" json:"performed_on"`
	Approved    bool      `gorm:"default:false" json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
