package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/scholarhub/scholarship-app/models"
	"github.com/scholarhub/scholarship-app/realtime"
	"github.com/scholarhub/scholarship-app/services"
	"github.com/scholarhub/scholarship-app/utils"
	chart "github.com/wcharczuk/go-chart/v2"
	"gorm.io/gorm"
)

type AdminController struct {
	DB      *gorm.DB
	Hub     *realtime.Hub
	Cleaner *services.OrphanCleaner
}

func NewAdminController(db *gorm.DB, hub *realtime.Hub, cleaner *services.OrphanCleaner) *AdminController {
	return &AdminController{DB: db, Hub: hub, Cleaner: cleaner}
}

// GetDashboardStats -> ringkasan angka untuk dashboard admin
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var (
		totalStudents     int64
		openScholarships  int64
		totalApplications int64
		pendingReview     int64
		approvedTotal     int64
		serviceHours      float64
	)

	ac.DB.Model(&models.User{}).Where("role = ?", "student").Count(&totalStudents)
	ac.DB.Model(&models.Scholarship{}).Where("status = ?", models.ScholarshipOpen).Count(&openScholarships)
	ac.DB.Model(&models.Application{}).Count(&totalApplications)
	ac.DB.Model(&models.Application{}).
		Where("status IN ?", []string{models.ApplicationPending, models.ApplicationUnderReview}).
		Count(&pendingReview)
	ac.DB.Model(&models.Application{}).
		Where("status = ?", models.ApplicationApproved).
		Count(&approvedTotal)
	ac.DB.Model(&models.ServiceLog{}).
		Where("approved = ?", true).
		Select("COALESCE(SUM(hours), 0)").
		Scan(&serviceHours)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"total_students":         totalStudents,
		"open_scholarships":      openScholarships,
		"total_applications":     totalApplications,
		"pending_review":         pendingReview,
		"approved_applications":  approvedTotal,
		"approved_service_hours": serviceHours,
	})
}

// CreateAnnouncement -> pengumuman admin ke semua student.
// Jalur ini memakai event "notification" dengan payload langsung di wire,
// berbeda dari jalur dispatcher yang mengirim record terbungkus.
func (ac *AdminController) CreateAnnouncement(c *gin.Context) {
	type reqBody struct {
		Title     string `json:"title" binding:"required"`
		Message   string `json:"message" binding:"required"`
		Type      string `json:"type"`
		ActionURL string `json:"action_url"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Type == "" {
		body.Type = "info"
	}

	var studentIDs []uint
	if err := ac.DB.Model(&models.User{}).
		Where("role = ?", "student").
		Pluck("id", &studentIDs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	now := time.Now()
	records := make([]models.Notification, 0, len(studentIDs))
	for _, id := range studentIDs {
		records = append(records, models.Notification{
			ID:        uuid.NewString(),
			UserID:    id,
			Title:     body.Title,
			Message:   body.Message,
			Type:      body.Type,
			ActionURL: body.ActionURL,
			CreatedAt: now,
		})
	}
	if len(records) > 0 {
		if err := ac.DB.Create(&records).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if ac.Hub != nil {
		ac.Hub.PublishToUsers(studentIDs, realtime.Message{
			Event: realtime.EventNotification,
			Data: realtime.NotificationPayload{
				Title:     body.Title,
				Message:   body.Message,
				Type:      body.Type,
				ActionURL: body.ActionURL,
			},
		})
	}

	utils.InfoLogger.Printf("Announcement %q sent to %d students", body.Title, len(studentIDs))
	utils.RespondJSON(c, http.StatusCreated, "Announcement sent", gin.H{
		"recipients": len(studentIDs),
	})
}

// CleanupOrphans -> jalankan sweep orphan cleaner sekali (maintenance)
func (ac *AdminController) CleanupOrphans(c *gin.Context) {
	removed, err := ac.Cleaner.Sweep()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orphan cleanup completed", gin.H{"removed": removed})
}

// ExportApplicationsPDF -> laporan aplikasi sebagai PDF
func (ac *AdminController) ExportApplicationsPDF(c *gin.Context) {
	var apps []models.Application
	if err := ac.DB.Preload("Scholarship").Preload("Student").
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Scholarship Applications Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 9)
	headers := []string{"ID", "Student", "Scholarship", "Amount", "Status", "Submitted"}
	widths := []float64{15, 60, 80, 40, 30, 40}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, app := range apps {
		pdf.CellFormat(widths[0], 7, fmt.Sprintf("%d", app.ID), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, app.Student.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, app.Scholarship.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, "Rp "+utils.FormatCurrency(app.Scholarship.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, app.Status, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[5], 7, app.CreatedAt.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	c.Header("Content-Disposition", `attachment; filename="applications-report.pdf"`)
	c.Header("Content-Type", "application/pdf")
	if err := pdf.Output(c.Writer); err != nil {
		utils.ErrorLogger.Printf("failed to write PDF report: %v", err)
	}
}

// ExportApplicationsChart -> grafik PNG jumlah aplikasi per bulan (6 bulan terakhir)
func (ac *AdminController) ExportApplicationsChart(c *gin.Context) {
	now := time.Now()
	values := make([]chart.Value, 0, 6)

	for i := 5; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		var count int64
		ac.DB.Model(&models.Application{}).
			Where("created_at >= ? AND created_at < ?", monthStart, monthEnd).
			Count(&count)

		values = append(values, chart.Value{
			Label: monthStart.Format("Jan 06"),
			Value: float64(count),
		})
	}

	graph := chart.BarChart{
		Title:    "Applications per Month",
		Height:   400,
		BarWidth: 50,
		Bars:     values,
	}

	c.Header("Content-Type", "image/png")
	if err := graph.Render(chart.PNG, c.Writer); err != nil {
		utils.ErrorLogger.Printf("failed to render applications chart: %v", err)
	}
}
