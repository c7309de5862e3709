package handlers

import (
	"net/http"
	"strings"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/helpers"
	"github.com/farellandr/clubhub/internal/middleware"
	"github.com/farellandr/clubhub/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApprovePhotoRequest struct {
	Approved *bool `json:"approved"`
}

func includePending(c *gin.Context) bool {
	return middleware.IsAdmin(c) && helpers.ParseBool(c.Query("include_pending"))
}

func loadPhotos(gormDB *gorm.DB, occasionID uuid.UUID, pending bool) ([]models.GalleryPhoto, error) {
	var photos []models.GalleryPhoto
	query := gormDB.Preload("UploadedBy").Where("occasion_id = ?", occasionID)
	if !pending {
		query = query.Where("is_approved = ?", true)
	}
	err := query.Order("created_at ASC").Find(&photos).Error
	return photos, err
}

func photoRecords(c *gin.Context, photos []models.GalleryPhoto) []club.Photo {
	base := baseURL(c)
	records := make([]club.Photo, 0, len(photos))
	for i := range photos {
		records = append(records, photos[i].Record(base))
	}
	return records
}

func ListPhotos(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	occasion, ok := findOccasion(c, gormDB, c.Param("id"))
	if !ok {
		return
	}

	photos, err := loadPhotos(gormDB, occasion.ID, includePending(c))
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving photos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"photos":  photoRecords(c, photos),
	})
}

// UploadPhotos accepts several files under "photos". Admin uploads are
// approved immediately; member submissions wait for approval.
func UploadPhotos(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	cfg, ok := getConfig(c)
	if !ok {
		return
	}
	provider, ok := getStorage(c)
	if !ok {
		return
	}
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	occasion, ok := findOccasion(c, gormDB, c.Param("id"))
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Expected a multipart form.")
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "No photos were uploaded.")
		return
	}
	if cfg.UploadMaxFiles > 0 && len(files) > cfg.UploadMaxFiles {
		helpers.RespondWithError(c, http.StatusBadRequest, "Too many photos in one upload.")
		return
	}

	uploadCfg := helpers.DefaultImageUploadConfig
	uploadCfg.MaxSizeBytes = cfg.UploadMaxBytes()

	approved := middleware.IsAdmin(c)
	caption := strings.TrimSpace(c.PostForm("caption"))

	photos := make([]models.GalleryPhoto, 0, len(files))
	var stored []string
	for _, fileHeader := range files {
		identifier, err := helpers.UploadFile(c.Request.Context(), provider, fileHeader, "photo", uploadCfg)
		if err != nil {
			discardMedia(c, stored...)
			helpers.RespondWithError(c, http.StatusBadRequest, fileHeader.Filename+": "+err.Error())
			return
		}
		stored = append(stored, identifier)
		photos = append(photos, models.GalleryPhoto{
			OccasionID:   occasion.ID,
			Caption:      caption,
			Path:         identifier,
			IsApproved:   approved,
			UploadedByID: userID,
		})
	}

	if err := gormDB.Omit(clause.Associations).Create(&photos).Error; err != nil {
		discardMedia(c, stored...)
		logrus.WithError(err).WithField("occasion_id", occasion.ID).Error("failed to save photos")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save photos.")
		return
	}
	if approved {
		invalidate(c, scopeOccasions)
	}

	var uploader models.User
	if err := gormDB.Where("id = ?", userID).First(&uploader).Error; err == nil {
		for i := range photos {
			photos[i].UploadedBy = uploader
		}
	}

	message := "Photos uploaded successfully."
	if !approved {
		message = "Photos submitted for approval."
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"photos":  photoRecords(c, photos),
	})
}

func findPhoto(c *gin.Context, gormDB *gorm.DB) (*models.GalleryPhoto, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid photo id.")
		return nil, false
	}
	var photo models.GalleryPhoto
	if err := gormDB.Preload("UploadedBy").Where("id = ?", id).First(&photo).Error; err != nil {
		if isNotFound(err) {
			helpers.RespondWithError(c, http.StatusNotFound, "Photo not found.")
			return nil, false
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving photo.")
		return nil, false
	}
	return &photo, true
}

// ApprovePhoto sets the approval flag; an empty body approves.
func ApprovePhoto(c *gin.Context) {
	var req ApprovePhotoRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
			return
		}
	}
	approved := req.Approved == nil || *req.Approved

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	photo, ok := findPhoto(c, gormDB)
	if !ok {
		return
	}

	if err := gormDB.Model(photo).Update("is_approved", approved).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update photo.")
		return
	}
	photo.IsApproved = approved
	invalidate(c, scopeOccasions)

	message := "Photo approved."
	if !approved {
		message = "Photo moved back to pending."
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"photo":   photo.Record(baseURL(c)),
	})
}

func DeletePhoto(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	photo, ok := findPhoto(c, gormDB)
	if !ok {
		return
	}

	if err := gormDB.Delete(photo).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete photo.")
		return
	}
	discardMedia(c, photo.Path)
	invalidate(c, scopeOccasions)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Photo deleted successfully.",
	})
}
