package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/scholarhub/scholarship-app/controllers"
	"github.com/scholarhub/scholarship-app/middlewares"
	"github.com/scholarhub/scholarship-app/realtime"
	"github.com/scholarhub/scholarship-app/services"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, hub *realtime.Hub, dispatcher *services.Dispatcher, cleaner *services.OrphanCleaner) *gin.Engine {
	r := gin.Default()

	workDir, _ := os.Getwd()

	// File upload statis (avatar, cover, dokumen)
	uploadsPath := filepath.Join(workDir, "public", "uploads")
	r.Static("/uploads", uploadsPath)

	// Batasi akses direktori uploads ke tipe file yang dikenal
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			lower := strings.ToLower(c.Request.URL.Path)
			allowed := strings.HasSuffix(lower, ".jpg") ||
				strings.HasSuffix(lower, ".jpeg") ||
				strings.HasSuffix(lower, ".png") ||
				strings.HasSuffix(lower, ".webp") ||
				strings.HasSuffix(lower, ".pdf")
			if !allowed {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}
		c.Next()
	})

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	scholarshipCtrl := controllers.NewScholarshipController(db, dispatcher)
	applicationCtrl := controllers.NewApplicationController(db, dispatcher)
	documentCtrl := controllers.NewDocumentController(db)
	serviceLogCtrl := controllers.NewServiceLogController(db, dispatcher)
	notificationCtrl := controllers.NewNotificationController(db)
	pushCtrl := controllers.NewPushController(db)
	adminCtrl := controllers.NewAdminController(db, hub, cleaner)
	realtimeCtrl := controllers.NewRealtimeController(hub)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Program yang sedang open bisa dilihat tanpa login
	r.GET("/scholarships", scholarshipCtrl.GetOpenScholarships)
	r.GET("/scholarships/:scholarship_id", scholarshipCtrl.GetScholarshipByID)

	// WebSocket endpoint dengan middleware token query
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("", realtimeCtrl.Serve)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)
	auth.PATCH("/profile", userCtrl.UpdateProfile)
	auth.POST("/profile/avatar", userCtrl.UploadAvatar)
	auth.POST("/profile/cover", userCtrl.UploadCover)

	// NOTIFICATIONS
	auth.GET("/notifications", notificationCtrl.GetMyNotifications)
	auth.POST("/notifications/:notif_id/read", notificationCtrl.MarkAsRead)
	auth.POST("/notifications/mark-all-read", notificationCtrl.MarkAllAsRead)

	// PUSH SUBSCRIPTIONS
	auth.POST("/push/subscribe", pushCtrl.Subscribe)
	auth.DELETE("/push/subscribe", pushCtrl.Unsubscribe)

	// APPLICATIONS (student)
	auth.POST("/applications", applicationCtrl.CreateApplication)
	auth.GET("/applications", applicationCtrl.GetMyApplications)
	auth.GET("/applications/:application_id", applicationCtrl.GetApplicationByID)
	auth.POST("/applications/:application_id/documents", documentCtrl.UploadDocument)

	// DOCUMENTS (student)
	auth.GET("/documents", documentCtrl.GetMyDocuments)
	auth.DELETE("/documents/:document_id", documentCtrl.DeleteDocument)

	// SERVICE LOGS (student)
	auth.GET("/service-logs", serviceLogCtrl.GetMyServiceLogs)
	auth.POST("/service-logs", serviceLogCtrl.CreateServiceLog)
	auth.PATCH("/service-logs/:log_id", serviceLogCtrl.UpdateServiceLog)
	auth.DELETE("/service-logs/:log_id", serviceLogCtrl.DeleteServiceLog)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := auth.Group("/admin")
	admin.Use(middlewares.RequireAdmin())

	admin.GET("/users", userCtrl.GetAllUsers)

	admin.GET("/scholarships", scholarshipCtrl.GetAllScholarships)
	admin.POST("/scholarships", scholarshipCtrl.CreateScholarship)
	admin.PATCH("/scholarships/:scholarship_id", scholarshipCtrl.UpdateScholarship)
	admin.DELETE("/scholarships/:scholarship_id", scholarshipCtrl.DeleteScholarship)

	admin.GET("/applications", applicationCtrl.GetAllApplications)
	admin.PATCH("/applications/:application_id/status", applicationCtrl.UpdateApplicationStatus)

	admin.POST("/service-logs/:log_id/approve", serviceLogCtrl.ApproveServiceLog)

	admin.POST("/announcements", adminCtrl.CreateAnnouncement)
	admin.POST("/maintenance/cleanup-orphans", adminCtrl.CleanupOrphans)

	admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
	admin.GET("/reports/applications.pdf", adminCtrl.ExportApplicationsPDF)
	admin.GET("/reports/applications-chart.png", adminCtrl.ExportApplicationsChart)

	return r
}
