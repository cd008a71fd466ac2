package models

import "time"

const (
	ApplicationPending     = "pending"
	ApplicationUnderReview = "under_review"
	ApplicationApproved    = "approved"
	ApplicationRejected    = "rejected"
)

type Application struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	ScholarshipID uint        `gorm:"not null;index;uniqueIndex:idx_scholarship_student" json:"scholarship_id"`
	Scholarship   Scholarship `gorm:"foreignKey:ScholarshipID" json:"scholarship"`
	StudentID     uint        `gorm:"not null;index;uniqueIndex:idx_scholarship_student" json:"student_id"`
	Student       User        `gorm:"foreignKey:StudentID" json:"student"`
	Essay         string      `gorm:"type:text" json:"essay"`
	Status        string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Documents     []Document  `gorm:"foreignKey:ApplicationID" json:"documents"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
