package handlers

import (
	"net/http"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/helpers"
	"github.com/farellandr/clubhub/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Stats struct {
	Events          int64 `json:"events"`
	PublishedEvents int64 `json:"published_events"`
	UpcomingEvents  int64 `json:"upcoming_events"`
	PastEvents      int64 `json:"past_events"`
	Occasions       int64 `json:"occasions"`
	Photos          int64 `json:"photos"`
	PendingPhotos   int64 `json:"pending_photos"`
	Users           int64 `json:"users"`
	Categories      int64 `json:"categories"`
}

// GetStats feeds the admin dashboard.
func GetStats(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	now := nowFunc().UTC()
	var stats Stats
	counts := []struct {
		model interface{}
		where string
		args  []interface{}
		dst   *int64
	}{
		{&models.Event{}, "", nil, &stats.Events},
		{&models.Event{}, "is_published = ?", []interface{}{true}, &stats.PublishedEvents},
		{&models.Event{}, "starts_at >= ?", []interface{}{now}, &stats.UpcomingEvents},
		{&models.Event{}, "starts_at < ?", []interface{}{now}, &stats.PastEvents},
		{&models.GalleryOccasion{}, "", nil, &stats.Occasions},
		{&models.GalleryPhoto{}, "", nil, &stats.Photos},
		{&models.GalleryPhoto{}, "is_approved = ?", []interface{}{false}, &stats.PendingPhotos},
		{&models.User{}, "", nil, &stats.Users},
		{&models.Category{}, "", nil, &stats.Categories},
	}
	for _, q := range counts {
		query := gormDB.Model(q.model)
		if q.where != "" {
			query = query.Where(q.where, q.args...)
		}
		if err := query.Count(q.dst).Error; err != nil {
			logrus.WithError(err).Error("stats query failed")
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing statistics.")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// ListUsers is restricted to superadmins.
func ListUsers(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	pageNum, limitNum, err := helpers.ParsePagination(c, 20)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters.")
		return
	}

	query := gormDB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		p := likePattern(search)
		query = query.Where(likeAny("name", "email", "roll_number"), p, p, p)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving users.")
		return
	}

	var users []models.User
	offset := (pageNum - 1) * limitNum
	if err := query.Preload("Role").Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&users).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving users.")
		return
	}

	now := nowFunc()
	records := make([]club.User, 0, len(users))
	for i := range users {
		records = append(records, users[i].Record(now))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"users":       records,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": helpers.TotalPages(totalCount, limitNum),
	})
}
