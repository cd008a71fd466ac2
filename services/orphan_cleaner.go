package services

import (
	"os"
	"time"

	"github.com/scholarhub/scholarship-app/models"
	"github.com/scholarhub/scholarship-app/utils"
	"gorm.io/gorm"
)

// OrphanCleaner menghapus Document yang application-nya sudah tidak ada.
// Berjalan periodik di background; bisa juga dipanggil sekali lewat endpoint admin.
type OrphanCleaner struct {
	DB          *gorm.DB
	StopChan    chan struct{}
	Interval    time.Duration
	GracePeriod time.Duration
}

func NewOrphanCleaner(db *gorm.DB) *OrphanCleaner {
	return &OrphanCleaner{
		DB:          db,
		StopChan:    make(chan struct{}),
		Interval:    1 * time.Hour,
		GracePeriod: 24 * time.Hour,
	}
}

func (oc *OrphanCleaner) Start() {
	go func() {
		ticker := time.NewTicker(oc.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := oc.Sweep(); err != nil {
					utils.ErrorLogger.Printf("orphan cleaner: sweep failed: %v", err)
				}
			case <-oc.StopChan:
				return
			}
		}
	}()
}

func (oc *OrphanCleaner) Stop() {
	close(oc.StopChan)
}

// Sweep mencari dan menghapus dokumen yatim beserta file-nya.
// Return jumlah dokumen yang dihapus.
func (oc *OrphanCleaner) Sweep() (int, error) {
	cutoff := time.Now().Add(-oc.GracePeriod)

	var orphans []models.Document
	err := oc.DB.
		Where("created_at < ?", cutoff).
		Where("application_id IS NULL OR application_id NOT IN (?)",
			oc.DB.Model(&models.Application{}).Select("id")).
		Find(&orphans).Error
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, doc := range orphans {
		if err := oc.DB.Delete(&models.Document{}, doc.ID).Error; err != nil {
			utils.ErrorLogger.Printf("orphan cleaner: failed to delete document %d: %v", doc.ID, err)
			continue
		}
		if doc.StoredPath != "" {
			if err := os.Remove(doc.StoredPath); err != nil && !os.IsNotExist(err) {
				utils.ErrorLogger.Printf("orphan cleaner: failed to remove file %s: %v", doc.StoredPath, err)
			}
		}
		removed++
	}

	if removed > 0 {
		utils.InfoLogger.Printf("orphan cleaner: removed %d orphaned documents", removed)
	}
	return removed, nil
}
