package handlers

import (
	"net/http"
	"strings"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/derive"
	"github.com/farellandr/clubhub/internal/helpers"
	"github.com/farellandr/clubhub/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=2"`
}

func categoryNameTaken(c *gin.Context, name string, category *models.Category) (bool, bool) {
	gormDB, ok := getDB(c)
	if !ok {
		return false, false
	}
	var count int64
	query := gormDB.Unscoped().Model(&models.Category{}).
		Where("LOWER(name) = ? OR slug = ?", strings.ToLower(name), derive.Slugify(name))
	if category != nil {
		query = query.Where("id <> ?", category.ID)
	}
	if err := query.Count(&count).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking category.")
		return false, false
	}
	return count > 0, true
}

func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	name := strings.TrimSpace(req.Name)
	if derive.Slugify(name) == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Category name needs letters or digits.")
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	taken, ok := categoryNameTaken(c, name, nil)
	if !ok {
		return
	}
	if taken {
		helpers.RespondWithError(c, http.StatusConflict, "Category already exists.")
		return
	}

	category := models.Category{Name: name}
	if err := gormDB.Create(&category).Error; err != nil {
		logrus.WithError(err).Error("failed to create category")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create category.")
		return
	}
	invalidate(c, scopeCategories)

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Category created successfully.",
		"category": category.Record(),
	})
}

func ListCategories(c *gin.Context) {
	if respondCached(c, scopeCategories) {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	var categories []models.Category
	if err := gormDB.Order("name ASC").Find(&categories).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving categories.")
		return
	}

	records := make([]club.Category, 0, len(categories))
	for i := range categories {
		records = append(records, categories[i].Record())
	}

	respondAndCache(c, scopeCategories, gin.H{
		"success":    true,
		"categories": records,
	})
}

// UpdateCategory renames a category. Events and occasions follow the rename
// because they reference the id.
func UpdateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	name := strings.TrimSpace(req.Name)
	if derive.Slugify(name) == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Category name needs letters or digits.")
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	var category models.Category
	if err := byIDOrSlug(gormDB, "categories", c.Param("id")).First(&category).Error; err != nil {
		if isNotFound(err) {
			helpers.RespondWithError(c, http.StatusNotFound, "Category not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding category.")
		return
	}

	taken, ok := categoryNameTaken(c, name, &category)
	if !ok {
		return
	}
	if taken {
		helpers.RespondWithError(c, http.StatusConflict, "Category already exists.")
		return
	}

	category.Name = name
	category.Slug = derive.Slugify(name)
	if err := gormDB.Save(&category).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update category.")
		return
	}
	invalidate(c, scopeCategories, scopeEvents, scopeOccasions)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Category updated successfully.",
		"category": category.Record(),
	})
}

// DeleteCategory refuses categories that are still referenced.
func DeleteCategory(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	var category models.Category
	if err := byIDOrSlug(gormDB, "categories", c.Param("id")).First(&category).Error; err != nil {
		if isNotFound(err) {
			helpers.RespondWithError(c, http.StatusNotFound, "Category not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding category.")
		return
	}

	var events, occasions int64
	gormDB.Unscoped().Model(&models.Event{}).Where("category_id = ?", category.ID).Count(&events)
	gormDB.Unscoped().Model(&models.GalleryOccasion{}).Where("category_id = ?", category.ID).Count(&occasions)
	if events+occasions > 0 {
		helpers.RespondWithError(c, http.StatusConflict, "Category is still used by events or gallery occasions.")
		return
	}

	if err := gormDB.Unscoped().Delete(&category).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete category.")
		return
	}
	invalidate(c, scopeCategories)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted successfully.",
	})
}
