package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/scholarhub/scholarship-app/models"
	"github.com/scholarhub/scholarship-app/utils"
	"gorm.io/gorm"
)

const documentUploadDir = "public/uploads/documents"

type DocumentController struct {
	DB *gorm.DB
}

func NewDocumentController(db *gorm.DB) *DocumentController {
	return &DocumentController{DB: db}
}

// UploadDocument -> lampirkan dokumen ke aplikasi milik student.
// File disimpan dengan nama uuid, nama asli dicatat di record.
func (dc *DocumentController) UploadDocument(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	appID, _ := strconv.Atoi(c.Param("application_id"))

	var app models.Application
	if err := dc.DB.First(&app, appID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if app.StudentID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("not your application"))
		return
	}

	kind := c.PostForm("kind")
	switch kind {
	case "transcript", "recommendation", "identity", "other":
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown document kind"))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" && ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unsupported document type"))
		return
	}

	if err := os.MkdirAll(documentUploadDir, 0755); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	dst := filepath.Join(documentUploadDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	applicationID := app.ID
	doc := models.Document{
		ApplicationID: &applicationID,
		OwnerID:       userID,
		Kind:          kind,
		OriginalName:  file.Filename,
		StoredPath:    dst,
		Size:          file.Size,
	}

	if err := dc.DB.Create(&doc).Error; err != nil {
		// Record gagal, jangan tinggalkan file yatim
		os.Remove(dst)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Document %d (%s) uploaded for application %d", doc.ID, kind, app.ID)
	utils.RespondJSON(c, http.StatusCreated, "Document uploaded", doc)
}

// GetMyDocuments -> semua dokumen milik user yang login
func (dc *DocumentController) GetMyDocuments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var docs []models.Document
	if err := dc.DB.Where("owner_id = ?", userID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My documents", docs)
}

// DeleteDocument -> student menghapus dokumen miliknya sendiri
func (dc *DocumentController) DeleteDocument(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	id, _ := strconv.Atoi(c.Param("document_id"))

	var doc models.Document
	if err := dc.DB.First(&doc, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if doc.OwnerID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("not your document"))
		return
	}

	if err := dc.DB.Delete(&models.Document{}, doc.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := os.Remove(doc.StoredPath); err != nil && !os.IsNotExist(err) {
		utils.ErrorLogger.Printf("failed to remove file %s: %v", doc.StoredPath, err)
	}

	utils.RespondJSON(c, http.StatusOK, "Document deleted", gin.H{"document_id": doc.ID})
}
