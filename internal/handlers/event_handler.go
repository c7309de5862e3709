package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

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

type eventForm struct {
	Title            string
	ShortDescription string
	Description      string
	Date             string
	Time             string
	StartsAt         time.Time
	Venue            string
	Category         string
	ImageURL         string
	MediaURLs        []string
	IsPublished      bool
	Capacity         int
	Participants     int
	Winners          []club.Winner
}

func splitFormList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '\n' }) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseEventForm(c *gin.Context, loc *time.Location) (*eventForm, error) {
	form := &eventForm{
		Title:            strings.TrimSpace(c.PostForm("title")),
		ShortDescription: strings.TrimSpace(c.PostForm("short_description")),
		Description:      strings.TrimSpace(c.PostForm("description")),
		Venue:            strings.TrimSpace(c.PostForm("venue")),
		Category:         strings.TrimSpace(c.PostForm("category")),
		ImageURL:         strings.TrimSpace(c.PostForm("image_url")),
		MediaURLs:        splitFormList(c.PostFormArray("media_urls")),
		IsPublished:      helpers.ParseBool(c.PostForm("is_published")),
	}

	if form.Title == "" || form.Description == "" {
		return nil, fmt.Errorf("missing required fields")
	}

	var err error
	if form.Date, err = helpers.ParseDay(c.PostForm("date")); err != nil {
		return nil, err
	}
	if form.Time, err = helpers.ParseClock(c.PostForm("time")); err != nil {
		return nil, err
	}
	if form.StartsAt, err = helpers.StartsAt(form.Date, form.Time, loc); err != nil {
		return nil, err
	}
	if form.Capacity, err = helpers.ParseNonNegative(c.PostForm("capacity")); err != nil {
		return nil, err
	}
	if form.Participants, err = helpers.ParseNonNegative(c.PostForm("participants")); err != nil {
		return nil, err
	}

	if raw := strings.TrimSpace(c.PostForm("winners")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &form.Winners); err != nil {
			return nil, fmt.Errorf("invalid winners list")
		}
		for _, w := range form.Winners {
			if w.Position < 1 || strings.TrimSpace(w.Name) == "" {
				return nil, fmt.Errorf("every winner needs a position and a name")
			}
		}
	}

	return form, nil
}

func (form *eventForm) apply(event *models.Event, category *models.Category) {
	event.Title = form.Title
	event.ShortDescription = form.ShortDescription
	event.Description = form.Description
	event.Date = form.Date
	event.Time = form.Time
	event.StartsAt = form.StartsAt
	event.Venue = form.Venue
	event.CategoryID = category.ID
	event.Category = *category
	event.MediaURLs = form.MediaURLs
	event.IsPublished = form.IsPublished
	event.Capacity = form.Capacity
	event.Participants = form.Participants
	event.Winners = form.Winners
}

// findEvent hides unpublished events from everyone but admins.
func findEvent(c *gin.Context, gormDB *gorm.DB, idOrSlug string) (*models.Event, bool) {
	var event models.Event
	query := byIDOrSlug(gormDB.Preload("Category"), "events", idOrSlug)
	if !middleware.IsAdmin(c) {
		query = query.Where("events.is_published = ?", true)
	}
	if err := query.First(&event).Error; err != nil {
		if isNotFound(err) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return nil, false
		}
		logrus.WithError(err).Error("event lookup failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return nil, false
	}
	return &event, true
}

func ListEvents(c *gin.Context) {
	includeUnpublished := middleware.IsAdmin(c) && helpers.ParseBool(c.Query("include_unpublished"))
	// Status filters move with the clock, so only clock-free lists are cached.
	cacheable := !middleware.IsAdmin(c) && c.Query("status") == ""
	if cacheable && respondCached(c, scopeEvents) {
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

	query := gormDB.Model(&models.Event{})
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
		query = query.Where(likeAny("title", "short_description", "description"), p, p, p)
	}

	order := "starts_at DESC"
	now := nowFunc().UTC()
	switch c.Query("status") {
	case "":
	case "upcoming":
		query = query.Where("starts_at >= ?", now)
		order = "starts_at ASC"
	case "past":
		query = query.Where("starts_at < ?", now)
	default:
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid status. Use upcoming or past.")
		return
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		logrus.WithError(err).Error("event count failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	var events []models.Event
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Category").Offset(offset).Limit(limitNum).Order(order + ", id").Find(&events).Error
	if err != nil {
		logrus.WithError(err).Error("event listing failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	base := baseURL(c)
	records := make([]club.Event, 0, len(events))
	for i := range events {
		records = append(records, events[i].Record(base))
	}

	payload := gin.H{
		"success":     true,
		"events":      records,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": helpers.TotalPages(totalCount, limitNum),
	}
	if !cacheable {
		c.JSON(http.StatusOK, payload)
		return
	}
	respondAndCache(c, scopeEvents, payload)
}

func GetEvent(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	event, ok := findEvent(c, gormDB, c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"event":   event.Record(baseURL(c)),
	})
}

// GetEventQR renders a PNG QR code linking to the public event page.
func GetEventQR(c *gin.Context) {
	cfg, ok := getConfig(c)
	if !ok {
		return
	}
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	event, ok := findEvent(c, gormDB, c.Param("id"))
	if !ok {
		return
	}

	size := 256
	if raw := c.Query("size"); raw != "" {
		n, err := helpers.StringToInt(raw)
		if err != nil || n < 64 || n > 1024 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Size must be between 64 and 1024.")
			return
		}
		size = n
	}

	qrImage, err := helpers.QRCodePNG(helpers.EventShareURL(cfg.SiteURL, event.Slug), size)
	if err != nil {
		logrus.WithError(err).Error("qr generation failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

// storeImage uploads the named form file when present. It returns the stored
// identifier, or fallback when no file was sent.
func storeImage(c *gin.Context, field, prefix, fallback string) (string, bool, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return fallback, false, true
	}

	cfg, ok := getConfig(c)
	if !ok {
		return "", false, false
	}
	provider, ok := getStorage(c)
	if !ok {
		return "", false, false
	}

	uploadCfg := helpers.DefaultImageUploadConfig
	uploadCfg.MaxSizeBytes = cfg.UploadMaxBytes()
	identifier, err := helpers.UploadFile(c.Request.Context(), provider, fileHeader, prefix, uploadCfg)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return "", false, false
	}
	return identifier, true, true
}

// discardMedia deletes stored uploads, logging failures.
func discardMedia(c *gin.Context, refs ...string) {
	provider := middleware.GetStorage(c)
	if provider == nil {
		return
	}
	for _, ref := range refs {
		if err := helpers.DeleteFile(c.Request.Context(), provider, ref); err != nil {
			logrus.WithError(err).WithField("identifier", ref).Warn("failed to delete media")
		}
	}
}

func CreateEvent(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	form, err := parseEventForm(c, location(c))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := models.ResolveCategory(gormDB, form.Category)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid category.")
		return
	}

	slug, err := uniqueSlug(gormDB, &models.Event{}, form.Title, uuid.Nil)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	event := models.Event{Slug: slug}
	form.apply(&event, category)
	if userID, exists := middleware.CurrentUserID(c); exists {
		event.CreatedBy = userID
	}

	imagePath, uploaded, ok := storeImage(c, "image", "event", form.ImageURL)
	if !ok {
		return
	}
	event.ImagePath = imagePath

	if err := gormDB.Omit(clause.Associations).Create(&event).Error; err != nil {
		if uploaded {
			discardMedia(c, imagePath)
		}
		logrus.WithError(err).Error("failed to create event")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}
	invalidate(c, scopeEvents)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Event created successfully.",
		"event":   event.Record(baseURL(c)),
	})
}

func UpdateEvent(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	event, ok := findEvent(c, gormDB, c.Param("id"))
	if !ok {
		return
	}

	form, err := parseEventForm(c, location(c))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := models.ResolveCategory(gormDB, form.Category)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid category.")
		return
	}

	if form.Title != event.Title {
		slug, err := uniqueSlug(gormDB, &models.Event{}, form.Title, event.ID)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		event.Slug = slug
	}

	oldImage := event.ImagePath
	fallback := oldImage
	if form.ImageURL != "" {
		fallback = form.ImageURL
	}
	imagePath, uploaded, ok := storeImage(c, "image", "event", fallback)
	if !ok {
		return
	}

	form.apply(event, category)
	event.ImagePath = imagePath

	if err := gormDB.Omit(clause.Associations).Save(event).Error; err != nil {
		if uploaded {
			discardMedia(c, imagePath)
		}
		logrus.WithError(err).WithField("event_id", event.ID).Error("failed to update event")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}
	if imagePath != oldImage {
		discardMedia(c, oldImage)
	}
	invalidate(c, scopeEvents)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Event updated successfully.",
		"event":   event.Record(baseURL(c)),
	})
}

func DeleteEvent(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	event, ok := findEvent(c, gormDB, c.Param("id"))
	if !ok {
		return
	}

	if err := gormDB.Delete(event).Error; err != nil {
		logrus.WithError(err).WithField("event_id", event.ID).Error("failed to delete event")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}
	discardMedia(c, event.ImagePath)
	invalidate(c, scopeEvents)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Event deleted successfully.",
	})
}
