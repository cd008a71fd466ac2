package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scholarhub/scholarship-app/models"
	"github.com/scholarhub/scholarship-app/utils"
	"gorm.io/gorm"
)

type PushController struct {
	DB *gorm.DB
}

func NewPushController(db *gorm.DB) *PushController {
	return &PushController{DB: db}
}

// Subscribe -> daftarkan endpoint web-push milik browser user
func (pc *PushController) Subscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	type reqBody struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sub := models.PushSubscription{
		UserID:   userID,
		Endpoint: body.Endpoint,
		P256dh:   body.Keys.P256dh,
		Auth:     body.Keys.Auth,
	}

	// Endpoint unik; subscribe ulang dari browser yang sama meng-update keys
	var existing models.PushSubscription
	err := pc.DB.Where("endpoint = ?", body.Endpoint).First(&existing).Error
	if err == nil {
		existing.UserID = userID
		existing.P256dh = body.Keys.P256dh
		existing.Auth = body.Keys.Auth
		if err := pc.DB.Save(&existing).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Subscription updated", existing)
		return
	}

	if err := pc.DB.Create(&sub).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Subscribed", sub)
}

// Unsubscribe -> hapus endpoint saat user mematikan push
func (pc *PushController) Unsubscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var body struct {
		Endpoint string `json:"endpoint" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.DB.Where("user_id = ? AND endpoint = ?", userID, body.Endpoint).
		Delete(&models.PushSubscription{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Unsubscribed", nil)
}
