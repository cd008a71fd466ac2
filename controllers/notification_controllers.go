package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scholarhub/scholarship-app/models"
	"github.com/scholarhub/scholarship-app/utils"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetMyNotifications -> daftar notifikasi milik user yang login, terbaru dulu
func (nc *NotificationController) GetMyNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var notifs []models.Notification
	if err := nc.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notifications retrieved", notifs)
}

// MarkAsRead -> menandai satu notifikasi sebagai sudah dibaca.
// Idempoten: read_at yang sudah terisi tidak pernah di-reset ke waktu baru.
func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	notifID := c.Param("notif_id")

	var notif models.Notification
	if err := nc.DB.Where("id = ? AND user_id = ?", notifID, userID).
		First(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if notif.ReadAt == nil {
		now := time.Now()
		if err := nc.DB.Model(&models.Notification{}).
			Where("id = ? AND read_at IS NULL", notif.ID).
			Update("read_at", now).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		notif.ReadAt = &now
	}

	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", notif)
}

// MarkAllAsRead -> bulk update untuk semua notifikasi unread milik user
func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	result := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now())
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", gin.H{
		"updated": result.RowsAffected,
	})
}

// currentUserID mengambil user_id yang diset auth middleware
func currentUserID(c *gin.Context) (uint, bool) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	userID, ok := userIDInterface.(uint)
	return userID, ok
}
