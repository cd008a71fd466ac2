package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/scholarhub/scholarship-app/events"
	"github.com/scholarhub/scholarship-app/models"
	"github.com/scholarhub/scholarship-app/services"
	"github.com/scholarhub/scholarship-app/utils"
	"gorm.io/gorm"
)

type ApplicationController struct {
	DB         *gorm.DB
	Dispatcher *services.Dispatcher
}

func NewApplicationController(db *gorm.DB, dispatcher *services.Dispatcher) *ApplicationController {
	return &ApplicationController{DB: db, Dispatcher: dispatcher}
}

// CreateApplication -> student mendaftar ke satu program beasiswa
func (ac *ApplicationController) CreateApplication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	type reqBody struct {
		ScholarshipID uint   `json:"scholarship_id" binding:"required"`
		Essay         string `json:"essay"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var scholarship models.Scholarship
	if err := ac.DB.First(&scholarship, body.ScholarshipID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if scholarship.Status != models.ScholarshipOpen {
		utils.RespondError(c, http.StatusUnprocessableEntity, errors.New("scholarship is not open for applications"))
		return
	}

	// Satu aplikasi per (scholarship, student)
	var existing int64
	ac.DB.Model(&models.Application{}).
		Where("scholarship_id = ? AND student_id = ?", body.ScholarshipID, userID).
		Count(&existing)
	if existing > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("you have already applied to this scholarship"))
		return
	}

	app := models.Application{
		ScholarshipID: body.ScholarshipID,
		StudentID:     userID,
		Essay:         body.Essay,
		Status:        models.ApplicationPending,
	}

	if err := ac.DB.Create(&app).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Application %d created by student %d for scholarship %d",
		app.ID, userID, body.ScholarshipID)
	utils.RespondJSON(c, http.StatusCreated, "Application submitted", app)
}

// GetMyApplications -> daftar aplikasi milik student yang login
func (ac *ApplicationController) GetMyApplications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var apps []models.Application
	if err := ac.DB.Preload("Scholarship").Preload("Documents").
		Where("student_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My applications", apps)
}

// GetApplicationByID -> detail aplikasi; student hanya boleh melihat miliknya
func (ac *ApplicationController) GetApplicationByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	role, _ := c.Get("role")

	id, _ := strconv.Atoi(c.Param("application_id"))

	var app models.Application
	if err := ac.DB.Preload("Scholarship").Preload("Student").Preload("Documents").
		First(&app, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if role != "admin" && app.StudentID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("not your application"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Application detail", app)
}

// GetAllApplications -> daftar semua aplikasi (admin), bisa difilter status
func (ac *ApplicationController) GetAllApplications(c *gin.Context) {
	query := ac.DB.Preload("Scholarship").Preload("Student")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if scholarshipID := c.Query("scholarship_id"); scholarshipID != "" {
		query = query.Where("scholarship_id = ?", scholarshipID)
	}

	var apps []models.Application
	if err := query.Order("created_at DESC").Find(&apps).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All applications", apps)
}

// UpdateApplicationStatus -> admin review; perubahan status memicu
// notifikasi ke student lewat dispatcher (fire-and-forget).
func (ac *ApplicationController) UpdateApplicationStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("application_id"))

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch input.Status {
	case models.ApplicationPending, models.ApplicationUnderReview,
		models.ApplicationApproved, models.ApplicationRejected:
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown application status"))
		return
	}

	var app models.Application
	if err := ac.DB.Preload("Scholarship").First(&app, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if app.Status == input.Status {
		utils.RespondJSON(c, http.StatusOK, "Status unchanged", app)
		return
	}

	app.Status = input.Status
	if err := ac.DB.Save(&app).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if ac.Dispatcher != nil {
		ac.Dispatcher.Dispatch(events.ApplicationStatusChanged(app))
	}

	utils.InfoLogger.Printf("Application %d status -> %s", app.ID, app.Status)
	utils.RespondJSON(c, http.StatusOK, "Application status updated", app)
}
