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

type ScholarshipController struct {
	DB         *gorm.DB
	Dispatcher *services.Dispatcher
}

func NewScholarshipController(db *gorm.DB, dispatcher *services.Dispatcher) *ScholarshipController {
	return &ScholarshipController{DB: db, Dispatcher: dispatcher}
}

// GetOpenScholarships -> daftar program yang sedang open (public)
func (sc *ScholarshipController) GetOpenScholarships(c *gin.Context) {
	var scholarships []models.Scholarship
	if err := sc.DB.Where("status = ?", models.ScholarshipOpen).
		Order("close_at ASC").
		Find(&scholarships).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Open scholarships", scholarships)
}

// GetAllScholarships -> semua program termasuk draft (admin)
func (sc *ScholarshipController) GetAllScholarships(c *gin.Context) {
	var scholarships []models.Scholarship
	if err := sc.DB.Order("created_at DESC").Find(&scholarships).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All scholarships", scholarships)
}

// GetScholarshipByID
func (sc *ScholarshipController) GetScholarshipByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("scholarship_id"))

	var scholarship models.Scholarship
	if err := sc.DB.First(&scholarship, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Scholarship detail", scholarship)
}

// CreateScholarship (admin)
func (sc *ScholarshipController) CreateScholarship(c *gin.Context) {
	type reqBody struct {
		Name        string    `json:"name" binding:"required"`
		Description string    `json:"description"`
		Provider    string    `json:"provider"`
		Amount      float64   `json:"amount"`
		Quota       int       `json:"quota"`
		OpenAt      time.Time `json:"open_at"`
		CloseAt     time.Time `json:"close_at"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	scholarship := models.Scholarship{
		Name:        body.Name,
		Description: body.Description,
		Provider:    body.Provider,
		Amount:      body.Amount,
		Quota:       body.Quota,
		OpenAt:      body.OpenAt,
		CloseAt:     body.CloseAt,
		Status:      models.ScholarshipDraft,
	}

	if err := sc.DB.Create(&scholarship).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Scholarship created: %s", scholarship.Name)
	utils.RespondJSON(c, http.StatusCreated, "Scholarship created", scholarship)
}

// UpdateScholarship (admin) -> ubah data atau status.
// Transisi ke open memicu notifikasi ke semua student lewat dispatcher.
func (sc *ScholarshipController) UpdateScholarship(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("scholarship_id"))

	var scholarship models.Scholarship
	if err := sc.DB.First(&scholarship, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var input struct {
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		Provider    *string    `json:"provider"`
		Amount      *float64   `json:"amount"`
		Quota       *int       `json:"quota"`
		OpenAt      *time.Time `json:"open_at"`
		CloseAt     *time.Time `json:"close_at"`
		Status      *string    `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	wasOpen := scholarship.Status == models.ScholarshipOpen

	if input.Name != nil {
		scholarship.Name = *input.Name
	}
	if input.Description != nil {
		scholarship.Description = *input.Description
	}
	if input.Provider != nil {
		scholarship.Provider = *input.Provider
	}
	if input.Amount != nil {
		scholarship.Amount = *input.Amount
	}
	if input.Quota != nil {
		scholarship.Quota = *input.Quota
	}
	if input.OpenAt != nil {
		scholarship.OpenAt = *input.OpenAt
	}
	if input.CloseAt != nil {
		scholarship.CloseAt = *input.CloseAt
	}
	if input.Status != nil {
		switch *input.Status {
		case models.ScholarshipDraft, models.ScholarshipOpen, models.ScholarshipClosed:
		default:
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown scholarship status"))
			return
		}
		scholarship.Status = *input.Status
	}

	if err := sc.DB.Save(&scholarship).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if !wasOpen && scholarship.Status == models.ScholarshipOpen && sc.Dispatcher != nil {
		var studentIDs []uint
		if err := sc.DB.Model(&models.User{}).
			Where("role = ?", "student").
			Pluck("id", &studentIDs).Error; err != nil {
			utils.ErrorLogger.Printf("failed to load recipients for scholarship %d: %v", scholarship.ID, err)
		} else if len(studentIDs) > 0 {
			sc.Dispatcher.Dispatch(events.ScholarshipOpened(scholarship, studentIDs))
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Scholarship updated", scholarship)
}

// DeleteScholarship (admin)
func (sc *ScholarshipController) DeleteScholarship(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("scholarship_id"))

	if err := sc.DB.Delete(&models.Scholarship{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Scholarship deleted", gin.H{"scholarship_id": id})
}
