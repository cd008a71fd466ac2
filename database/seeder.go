package database

import (
	"os"
	"time"

	"github.com/scholarhub/scholarship-app/models"
	"github.com/scholarhub/scholarship-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed mengisi data awal: akun admin dan contoh program beasiswa.
// Aman dipanggil berulang, hanya membuat record yang belum ada.
func Seed(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedScholarships(db)
}

func seedAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@scholarhub.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin12345"
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	utils.InfoLogger.Printf("Seeded admin account: %s", email)
	return nil
}

func seedScholarships(db *gorm.DB) error {
	var count int64
	db.Model(&models.Scholarship{}).Count(&count)
	if count > 0 {
		return nil
	}

	now := time.Now()
	scholarships := []models.Scholarship{
		{
			Name:        "Merit Excellence Scholarship",
			Description: "Full tuition support for students with outstanding academic records.",
			Provider:    "ScholarHub Foundation",
			Amount:      25000000,
			Quota:       10,
			OpenAt:      now,
			CloseAt:     now.AddDate(0, 3, 0),
			Status:      models.ScholarshipOpen,
		},
		{
			Name:        "Community Service Grant",
			Description: "Partial support for students active in community service programs.",
			Provider:    "ScholarHub Foundation",
			Amount:      10000000,
			Quota:       25,
			OpenAt:      now.AddDate(0, 1, 0),
			CloseAt:     now.AddDate(0, 4, 0),
			Status:      models.ScholarshipDraft,
		},
	}

	if err := db.Create(&scholarships).Error; err != nil {
		return err
	}

	utils.InfoLogger.Printf("Seeded %d scholarships", len(scholarships))
	return nil
}
