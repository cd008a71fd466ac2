package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/scholarhub/scholarship-app/models"
)

func newCleanerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:cleanertest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Scholarship{}, &models.Application{}, &models.Document{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db.Exec("DELETE FROM documents")
	db.Exec("DELETE FROM applications")
	return db
}

func TestSweepRemovesOnlyStaleOrphans(t *testing.T) {
	db := newCleanerTestDB(t)

	app := models.Application{ScholarshipID: 1, StudentID: 1, Status: models.ApplicationPending}
	assert.NoError(t, db.Create(&app).Error)

	old := time.Now().Add(-48 * time.Hour)

	// Terikat ke aplikasi yang masih ada: dipertahankan
	attached := models.Document{ApplicationID: &app.ID, OwnerID: 1, Kind: "transcript", OriginalName: "a.pdf", StoredPath: ""}
	assert.NoError(t, db.Create(&attached).Error)
	db.Model(&attached).Update("created_at", old)

	// Yatim dan sudah lewat grace period: dihapus
	orphanOld := models.Document{OwnerID: 1, Kind: "other", OriginalName: "b.pdf", StoredPath: ""}
	assert.NoError(t, db.Create(&orphanOld).Error)
	db.Model(&orphanOld).Update("created_at", old)

	// Yatim tapi masih dalam grace period: dipertahankan
	orphanNew := models.Document{OwnerID: 1, Kind: "other", OriginalName: "c.pdf", StoredPath: ""}
	assert.NoError(t, db.Create(&orphanNew).Error)

	// Menunjuk aplikasi yang sudah dihapus: dihapus
	ghostID := uint(9999)
	ghost := models.Document{ApplicationID: &ghostID, OwnerID: 1, Kind: "identity", OriginalName: "d.pdf", StoredPath: ""}
	assert.NoError(t, db.Create(&ghost).Error)
	db.Model(&ghost).Update("created_at", old)

	cleaner := NewOrphanCleaner(db)
	removed, err := cleaner.Sweep()
	assert.NoError(t, err)
	assert.Equal(t, 2, removed)

	var remaining []models.Document
	assert.NoError(t, db.Find(&remaining).Error)
	assert.Len(t, remaining, 2)

	ids := []uint{remaining[0].ID, remaining[1].ID}
	assert.Contains(t, ids, attached.ID)
	assert.Contains(t, ids, orphanNew.ID)
}
