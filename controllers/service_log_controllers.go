package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scholarhub/scholarship-app/events"
	"github.com/scholarhub/scholarship-app/models"
	"github.com/scholarhub/scholarship-app/services"
	"github.com/scholarhub/scholarship-app/utils"
	"gorm.io/gorm"
)

type ServiceLogController struct {
	DB         *gorm.DB
	Dispatcher *services.Dispatcher
}

func NewServiceLogController(db *gorm.DB, dispatcher *services.Dispatcher) *ServiceLogController {
	return &ServiceLogController{DB: db, Dispatcher: dispatcher}
}

// GetMyServiceLogs -> log jam pelayanan milik student, plus total jam approved
func (slc *ServiceLogController) GetMyServiceLogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var logs []models.ServiceLog
	if err := slc.DB.Where("student_id = ?", userID).
		Order("performed_on DESC").
		Find(&logs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var totalApproved float64
	for _, l := range logs {
		if l.Approved {
			totalApproved += l.Hours
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Service logs", gin.H{
		"logs":                 logs,
		"total_approved_hours": totalApproved,
	})
}

// CreateServiceLog -> student mencatat jam kegiatan
func (slc *ServiceLogController) CreateServiceLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	type reqBody struct {
		Activity    string    `json:"activity" binding:"required"`
		Hours       float64   `json:"hours" binding:"required,gt=0"`
		PerformedOn time.Time `json:"performed_on" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	logEntry := models.ServiceLog{
		StudentID:   userID,
		Activity:    body.Activity,
		Hours:       body.Hours,
		PerformedOn: body.PerformedOn,
	}

	if err := slc.DB.Create(&logEntry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Service log created", logEntry)
}

// UpdateServiceLog -> student mengubah log miliknya selama belum approved
func (slc *ServiceLogController) UpdateServiceLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	id, _ := strconv.Atoi(c.Param("log_id"))

	var logEntry models.ServiceLog
	if err := slc.DB.First(&logEntry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if logEntry.StudentID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("not your service log"))
		return
	}
	if logEntry.Approved {
		utils.RespondError(c, http.StatusUnprocessableEntity, errors.New("approved logs cannot be edited"))
		return
	}

	var input struct {
		Activity    *string    `json:"activity"`
		Hours       *float64   `json:"hours" binding:"omitempty,gt=0"`
		PerformedOn *time.Time `json:"performed_on"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.Activity != nil {
		logEntry.Activity = *input.Activity
	}
	if input.Hours != nil {
		logEntry.Hours = *input.Hours
	}
	if input.PerformedOn != nil {
		logEntry.PerformedOn = *input.PerformedOn
	}

	if err := slc.DB.Save(&logEntry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Service log updated", logEntry)
}

// DeleteServiceLog -> hapus log yang belum approved
func (slc *ServiceLogController) DeleteServiceLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	id, _ := strconv.Atoi(c.Param("log_id"))

	var logEntry models.ServiceLog
	if err := slc.DB.First(&logEntry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if logEntry.StudentID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("not your service log"))
		return
	}
	if logEntry.Approved {
		utils.RespondError(c, http.StatusUnprocessableEntity, errors.New("approved logs cannot be deleted"))
		return
	}

	if err := slc.DB.Delete(&models.ServiceLog{}, logEntry.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Service log deleted", gin.H{"log_id": logEntry.ID})
}

// ApproveServiceLog -> admin menyetujui log; memicu notifikasi ke student
func (slc *ServiceLogController) ApproveServiceLog(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("log_id"))

	var logEntry models.ServiceLog
	if err := slc.DB.First(&logEntry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if logEntry.Approved {
		utils.RespondJSON(c, http.StatusOK, "Service log already approved", logEntry)
		return
	}

	logEntry.Approved = true
	if err := slc.DB.Save(&logEntry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if slc.Dispatcher != nil {
		slc.Dispatcher.Dispatch(events.ServiceLogApproved(logEntry))
	}

	utils.RespondJSON(c, http.StatusOK, "Service log approved", logEntry)
}
