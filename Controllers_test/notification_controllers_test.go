package Controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/scholarhub/scholarship-app/controllers"
	"github.com/scholarhub/scholarship-app/events"
	"github.com/scholarhub/scholarship-app/models"
	"github.com/scholarhub/scholarship-app/services"
)

func setupTestDBForNotifications(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:notiftest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.User{}, &models.Notification{})
	if err != nil {
		panic(err)
	}
	// Mulai dari tabel kosong; DSN shared antar test dalam satu proses
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM users")
	// Counter AUTOINCREMENT tidak ikut terhapus; reset supaya ID mulai dari 1 lagi
	db.Exec("DELETE FROM sqlite_sequence")

	user := models.User{
		Name:     "Test Student",
		Email:    "student@example.com",
		Password: "secret",
		Role:     "student",
	}
	db.Create(&user)
	return db
}

// setupNotificationRouter memasang handler dengan middleware yang meniru
// auth middleware (set user_id di context)
func setupNotificationRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", "student")
		c.Next()
	})
	notifCtrl := controllers.NewNotificationController(db)
	router.GET("/notifications", notifCtrl.GetMyNotifications)
	router.POST("/notifications/:notif_id/read", notifCtrl.MarkAsRead)
	router.POST("/notifications/mark-all-read", notifCtrl.MarkAllAsRead)
	return router
}

func dispatchTestEvent(db *gorm.DB, userID uint) []models.Notification {
	dispatcher := services.NewDispatcher(db, nil, nil)
	return dispatcher.DispatchSync(events.NotificationEvent{
		Recipients: []uint{userID},
		Title:      "Approved",
		Message:    "Your application was approved",
		Type:       "success",
		ActionURL:  "/student/applications/5",
	})
}

func TestDispatchedNotificationAppearsInList(t *testing.T) {
	db := setupTestDBForNotifications(t)
	router := setupNotificationRouter(db, 1)

	records := dispatchTestEvent(db, 1)
	assert.Len(t, records, 1)

	req, _ := http.NewRequest("GET", "/notifications", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status bool                  `json:"status"`
		Data   []models.Notification `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)

	notif := resp.Data[0]
	assert.Equal(t, "Approved", notif.Title)
	assert.Equal(t, "Your application was approved", notif.Message)
	assert.Equal(t, "success", notif.Type)
	assert.Equal(t, "/student/applications/5", notif.ActionURL)
	assert.Nil(t, notif.ReadAt)
	assert.False(t, notif.CreatedAt.IsZero())
}

func TestMarkAsReadIsIdempotent(t *testing.T) {
	db := setupTestDBForNotifications(t)
	router := setupNotificationRouter(db, 1)

	records := dispatchTestEvent(db, 1)
	notifID := records[0].ID

	// Pertama kali: read_at terisi
	req, _ := http.NewRequest("POST", "/notifications/"+notifID+"/read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var first models.Notification
	assert.NoError(t, db.First(&first, "id = ?", notifID).Error)
	assert.NotNil(t, first.ReadAt)
	firstReadAt := *first.ReadAt

	time.Sleep(10 * time.Millisecond)

	// Kedua kali: read_at tidak di-reset ke waktu baru
	req, _ = http.NewRequest("POST", "/notifications/"+notifID+"/read", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var second models.Notification
	assert.NoError(t, db.First(&second, "id = ?", notifID).Error)
	assert.NotNil(t, second.ReadAt)
	assert.True(t, firstReadAt.Equal(*second.ReadAt))
}

func TestMarkAsReadUnknownID(t *testing.T) {
	db := setupTestDBForNotifications(t)
	router := setupNotificationRouter(db, 1)

	req, _ := http.NewRequest("POST", "/notifications/does-not-exist/read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkAsReadScopedToOwner(t *testing.T) {
	db := setupTestDBForNotifications(t)

	other := models.User{Name: "Other", Email: "other@example.com", Password: "x", Role: "student"}
	db.Create(&other)
	records := dispatchTestEvent(db, other.ID)

	// User 1 tidak boleh menandai notifikasi milik user lain
	router := setupNotificationRouter(db, 1)
	req, _ := http.NewRequest("POST", "/notifications/"+records[0].ID+"/read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var notif models.Notification
	assert.NoError(t, db.First(&notif, "id = ?", records[0].ID).Error)
	assert.Nil(t, notif.ReadAt)
}

func TestMarkAllAsRead(t *testing.T) {
	db := setupTestDBForNotifications(t)
	router := setupNotificationRouter(db, 1)

	dispatchTestEvent(db, 1)
	dispatchTestEvent(db, 1)
	dispatchTestEvent(db, 1)

	req, _ := http.NewRequest("POST", "/notifications/mark-all-read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var unread int64
	db.Model(&models.Notification{}).Where("user_id = ? AND read_at IS NULL", 1).Count(&unread)
	assert.Equal(t, int64(0), unread)

	var total int64
	db.Model(&models.Notification{}).Where("user_id = ?", 1).Count(&total)
	assert.Equal(t, int64(3), total)
}
