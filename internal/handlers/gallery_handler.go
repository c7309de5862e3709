package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/derive"
	"github.com/farellandr/clubhub/internal/helpers"
	"github.com/farellandr/clubhub/internal/middleware"
	"github.com/farellandr/clubhub/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errMissingTitle = errors.New("missing required fields")

type occasionForm struct {
	Title       string
	Description string
	Date        string
	Category    string
	CoverImage  string
	IsPublished bool
}

func parseOccasionForm(c *gin.Context) (*occasionForm, error) {
	form := &occasionForm{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Category:    strings.TrimSpace(c.PostForm("category")),
		CoverImage:  strings.TrimSpace(c.PostForm("cover_image")),
		IsPublished: helpers.ParseBool(c.PostForm("is_published")),
	}
	if form.Title == "" {
		return nil, errMissingTitle
	}
	day, err := helpers.ParseDay(c.PostForm("date"))
	if err != nil {
		return nil, err
	}
	form.Date = day
	return form, nil
}

// findOccasion hides unpublished occasions from everyone but admins.
func findOccasion(c *gin.Context, gormDB *gorm.DB, idOrSlug string) (*models.GalleryOccasion, bool) {
	var occasion models.GalleryOccasion
	query := byIDOrSlug(gormDB.Preload("Category"), "gallery_occasions", idOrSlug)
	if !middleware.IsAdmin(c) {
		query = query.Where("gallery_occasions.is_published = ?", true)
	}
	if err := query.First(&occasion).Error; err != nil {
		if isNotFound(err) {
			helpers.RespondWithError(c, http.StatusNotFound, "Gallery occasion not found.")
			return nil, false
		}
		logrus.WithError(err).Error("occasion lookup failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving gallery occasion.")
		return nil, false
	}
	return &occasion, true
}

func fillPhotoCounts(gormDB *gorm.DB, occasions []models.GalleryOccasion) error {
	ids := make([]uuid.UUID, 0, len(occasions))
	for _, o := range occasions {
		ids = append(ids, o.ID)
	}
	counts, err := models.ApprovedPhotoCounts(gormDB, ids)
	if err != nil {
		return err
	}
	for i := range occasions {
		occasions[i].PhotoCount = counts[occasions[i].ID]
	}
	return nil
}

func ListOccasions(c *gin.Context) {
	includeUnpublished := middleware.IsAdmin(c) && helpers.ParseBool(c.Query("include_unpublished"))
	if !middleware.IsAdmin(c) && respondCached(c, scopeOccasions) {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	pageNum, limitNum, err := helpers.ParsePagination(c, 12)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters.")
		return
	}

	query := gormDB.Model(&models.GalleryOccasion{})
	if !includeUnpublished {
		query = query.Where("is_published = ?", true)
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" && !strings.EqualFold(category, derive.AllCategories) {
		name := strings.ToLower(category)
		ids := gormDB.Model(&models.Category{}).Select("id").Where("LOWER(name) = ? OR slug = ?", name, name)
		query = query.Where("category_id IN (?)", ids)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		p := likePattern(search)
		query = query.Where(likeAny("title", "description"), p, p)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving gallery occasions.")
		return
	}

	var occasions []models.GalleryOccasion
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Category").Offset(offset).Limit(limitNum).Order("date DESC, created_at DESC").Find(&occasions).Error
	if err == nil {
		err = fillPhotoCounts(gormDB, occasions)
	}
	if err != nil {
		logrus.WithError(err).Error("occasion listing failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving gallery occasions.")
		return
	}

	base := baseURL(c)
	records := make([]club.Occasion, 0, len(occasions))
	for i := range occasions {
		records = append(records, occasions[i].Record(base))
	}

	payload := gin.H{
		"success":     true,
		"occasions":   records,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": helpers.TotalPages(totalCount, limitNum),
	}
	if middleware.IsAdmin(c) {
		c.JSON(http.StatusOK, payload)
		return
	}
	respondAndCache(c, scopeOccasions, payload)
}

// GetOccasion embeds the occasion's approved photos, or all of them for an
// admin passing include_pending=true.
func GetOccasion(c *gin.Context) {
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
	occasion.Photos = photos

	counts, err := models.ApprovedPhotoCounts(gormDB, []uuid.UUID{occasion.ID})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving photos.")
		return
	}
	occasion.PhotoCount = counts[occasion.ID]

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"occasion": occasion.Record(baseURL(c)),
	})
}

func CreateOccasion(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	form, err := parseOccasionForm(c)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := models.ResolveCategory(gormDB, form.Category)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid category.")
		return
	}

	slug, err := uniqueSlug(gormDB, &models.GalleryOccasion{}, form.Title, uuid.Nil)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	coverPath, uploaded, ok := storeImage(c, "cover", "cover", form.CoverImage)
	if !ok {
		return
	}

	occasion := models.GalleryOccasion{
		Title:       form.Title,
		Slug:        slug,
		Description: form.Description,
		Date:        form.Date,
		CategoryID:  category.ID,
		Category:    *category,
		CoverPath:   coverPath,
		IsPublished: form.IsPublished,
	}

	if err := gormDB.Omit(clause.Associations).Create(&occasion).Error; err != nil {
		if uploaded {
			discardMedia(c, coverPath)
		}
		logrus.WithError(err).Error("failed to create occasion")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create gallery occasion.")
		return
	}
	invalidate(c, scopeOccasions)

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Gallery occasion created successfully.",
		"occasion": occasion.Record(baseURL(c)),
	})
}

func UpdateOccasion(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	occasion, ok := findOccasion(c, gormDB, c.Param("id"))
	if !ok {
		return
	}

	form, err := parseOccasionForm(c)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := models.ResolveCategory(gormDB, form.Category)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid category.")
		return
	}

	if form.Title != occasion.Title {
		slug, err := uniqueSlug(gormDB, &models.GalleryOccasion{}, form.Title, occasion.ID)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		occasion.Slug = slug
	}

	oldCover := occasion.CoverPath
	fallback := oldCover
	if form.CoverImage != "" {
		fallback = form.CoverImage
	}
	coverPath, uploaded, ok := storeImage(c, "cover", "cover", fallback)
	if !ok {
		return
	}

	occasion.Title = form.Title
	occasion.Description = form.Description
	occasion.Date = form.Date
	occasion.CategoryID = category.ID
	occasion.Category = *category
	occasion.CoverPath = coverPath
	occasion.IsPublished = form.IsPublished

	if err := gormDB.Omit(clause.Associations).Save(occasion).Error; err != nil {
		if uploaded {
			discardMedia(c, coverPath)
		}
		logrus.WithError(err).WithField("occasion_id", occasion.ID).Error("failed to update occasion")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update gallery occasion.")
		return
	}
	if coverPath != oldCover {
		discardMedia(c, oldCover)
	}
	invalidate(c, scopeOccasions)

	counts, _ := models.ApprovedPhotoCounts(gormDB, []uuid.UUID{occasion.ID})
	occasion.PhotoCount = counts[occasion.ID]

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Gallery occasion updated successfully.",
		"occasion": occasion.Record(baseURL(c)),
	})
}

// DeleteOccasion removes the occasion together with its photos and their
// files.
func DeleteOccasion(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	occasion, ok := findOccasion(c, gormDB, c.Param("id"))
	if !ok {
		return
	}

	var photos []models.GalleryPhoto
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("occasion_id = ?", occasion.ID).Find(&photos).Error; err != nil {
			return err
		}
		if err := tx.Where("occasion_id = ?", occasion.ID).Delete(&models.GalleryPhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(occasion).Error
	})
	if err != nil {
		logrus.WithError(err).WithField("occasion_id", occasion.ID).Error("failed to delete occasion")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete gallery occasion.")
		return
	}

	refs := []string{occasion.CoverPath}
	for _, p := range photos {
		refs = append(refs, p.Path)
	}
	discardMedia(c, refs...)
	invalidate(c, scopeOccasions)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Gallery occasion deleted successfully.",
	})
}
