package Controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/scholarhub/scholarship-app/controllers"
	"github.com/scholarhub/scholarship-app/models"
)

func setupTestDBForDocuments() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:doctest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Scholarship{},
		&models.Application{},
		&models.Document{},
	)
	if err != nil {
		panic(err)
	}
	db.Exec("DELETE FROM documents")
	db.Exec("DELETE FROM applications")
	db.Exec("DELETE FROM scholarships")
	db.Exec("DELETE FROM users")
	// Counter AUTOINCREMENT tidak ikut terhapus; reset supaya ID mulai dari 1 lagi
	db.Exec("DELETE FROM sqlite_sequence")

	db.Create(&models.User{Name: "Student", Email: "docs@example.com", Password: "x", Role: "student"})
	db.Create(&models.Scholarship{
		Name:    "Merit Scholarship",
		Quota:   5,
		OpenAt:  time.Now(),
		CloseAt: time.Now().AddDate(0, 1, 0),
		Status:  models.ScholarshipOpen,
	})
	db.Create(&models.Application{ScholarshipID: 1, StudentID: 1, Status: models.ApplicationPending})
	return db
}

func setupDocumentRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", "student")
		c.Next()
	})
	docCtrl := controllers.NewDocumentController(db)
	router.POST("/applications/:application_id/documents", docCtrl.UploadDocument)
	router.GET("/documents", docCtrl.GetMyDocuments)
	router.DELETE("/documents/:document_id", docCtrl.DeleteDocument)
	return router
}

// uploadDocument -> kirim multipart form dengan field kind + file
func uploadDocument(t *testing.T, router *gin.Engine, url, kind, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	assert.NoError(t, writer.WriteField("kind", kind))
	part, err := writer.CreateFormFile("file", filename)
	assert.NoError(t, err)
	part.Write([]byte("%PDF-1.4 test content"))
	assert.NoError(t, writer.Close())

	req, err := http.NewRequest("POST", url, &buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadDocument(t *testing.T) {
	db := setupTestDBForDocuments()
	router := setupDocumentRouter(db, 1)
	t.Cleanup(func() { os.RemoveAll("public") })

	w := uploadDocument(t, router, "/applications/1/documents", "transcript", "transkrip.pdf")
	assert.Equal(t, http.StatusCreated, w.Code)

	var doc models.Document
	assert.NoError(t, db.First(&doc).Error)
	assert.Equal(t, "transcript", doc.Kind)
	assert.Equal(t, "transkrip.pdf", doc.OriginalName)
	assert.Equal(t, uint(1), doc.OwnerID)
	assert.NotNil(t, doc.ApplicationID)

	// File tersimpan dengan nama uuid, bukan nama asli
	assert.NotContains(t, doc.StoredPath, "transkrip")
	_, err := os.Stat(doc.StoredPath)
	assert.NoError(t, err)
}

func TestUploadDocumentRejectsBadInput(t *testing.T) {
	db := setupTestDBForDocuments()
	router := setupDocumentRouter(db, 1)
	t.Cleanup(func() { os.RemoveAll("public") })

	// Kind di luar daftar
	w := uploadDocument(t, router, "/applications/1/documents", "diary", "notes.pdf")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Ekstensi tidak didukung
	w = uploadDocument(t, router, "/applications/1/documents", "transcript", "malware.exe")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Document{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUploadDocumentForbiddenForOtherStudent(t *testing.T) {
	db := setupTestDBForDocuments()
	router := setupDocumentRouter(db, 42)
	t.Cleanup(func() { os.RemoveAll("public") })

	w := uploadDocument(t, router, "/applications/1/documents", "transcript", "transkrip.pdf")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteDocument(t *testing.T) {
	db := setupTestDBForDocuments()
	router := setupDocumentRouter(db, 1)
	t.Cleanup(func() { os.RemoveAll("public") })

	w := uploadDocument(t, router, "/applications/1/documents", "identity", "ktp.png")
	assert.Equal(t, http.StatusCreated, w.Code)

	var doc models.Document
	assert.NoError(t, db.First(&doc).Error)

	req, _ := http.NewRequest("DELETE", "/documents/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	db.Model(&models.Document{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// File fisik ikut terhapus
	_, err := os.Stat(doc.StoredPath)
	assert.True(t, os.IsNotExist(err))
}
