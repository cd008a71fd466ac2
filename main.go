package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/scholarhub/scholarship-app/config"
	"github.com/scholarhub/scholarship-app/database"
	"github.com/scholarhub/scholarship-app/middlewares"
	"github.com/scholarhub/scholarship-app/models"
	"github.com/scholarhub/scholarship-app/realtime"
	"github.com/scholarhub/scholarship-app/router"
	"github.com/scholarhub/scholarship-app/services"
	"github.com/scholarhub/scholarship-app/utils"
	"gorm.io/gorm"
)

func init() {
	// Load .env di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	// Initialize DB
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Set gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	if err := database.Seed(db); err != nil {
		utils.ErrorLogger.Printf("Seeding failed: %v", err)
	}

	// Setup rate limiter (50 requests per second per IP)
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	// Hub websocket + dispatcher notifikasi
	hub := realtime.NewHub()
	push := services.NewWebPushService(db)
	dispatcher := services.NewDispatcher(db, hub, push)
	dispatcher.Start()
	defer dispatcher.Stop()

	// Pembersih dokumen yatim
	cleaner := services.NewOrphanCleaner(db)
	cleaner.Start()
	defer cleaner.Stop()

	// Bersihkan blacklist token tiap jam
	go func() {
		for range time.Tick(1 * time.Hour) {
			utils.CleanupBlacklist()
		}
	}()

	// Setup router
	r := router.SetupRouter(db, hub, dispatcher, cleaner)
	r.Use(rateLimiter.RateLimit())

	// Set trusted proxies
	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	// Run server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Scholarship{},
		&models.Application{},
		&models.Document{},
		&models.ServiceLog{},
		&models.Notification{},
		&models.PushSubscription{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
