package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/farellandr/clubhub/config"
	"github.com/farellandr/clubhub/internal/cache"
	"github.com/farellandr/clubhub/internal/derive"
	"github.com/farellandr/clubhub/internal/helpers"
	"github.com/farellandr/clubhub/internal/middleware"
	"github.com/farellandr/clubhub/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Cache scopes for list responses.
const (
	scopeEvents     = "events"
	scopeOccasions  = "occasions"
	scopeCategories = "categories"
)

var nowFunc = time.Now

func getDB(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return nil, false
	}
	return db.WithContext(c.Request.Context()), true
}

func getConfig(c *gin.Context) (*config.Config, bool) {
	cfg := middleware.GetConfig(c)
	if cfg == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Server configuration not found.")
		return nil, false
	}
	return cfg, true
}

func getStorage(c *gin.Context) (storage.Provider, bool) {
	provider := middleware.GetStorage(c)
	if provider == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Storage provider not found.")
		return nil, false
	}
	return provider, true
}

func baseURL(c *gin.Context) string {
	if cfg := middleware.GetConfig(c); cfg != nil {
		return cfg.BaseURL()
	}
	return ""
}

func location(c *gin.Context) *time.Location {
	if cfg := middleware.GetConfig(c); cfg != nil {
		return cfg.Location()
	}
	return time.UTC
}

func cacheTTL(c *gin.Context) time.Duration {
	if cfg := middleware.GetConfig(c); cfg != nil && cfg.CacheTTL > 0 {
		return cfg.CacheTTL
	}
	return time.Minute
}

// byIDOrSlug narrows a query to one row addressed by uuid or slug.
func byIDOrSlug(query *gorm.DB, table, idOrSlug string) *gorm.DB {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return query.Where(table+".id = ?", id)
	}
	return query.Where(table+".slug = ?", strings.ToLower(idOrSlug))
}

// uniqueSlug derives a slug from title and appends -2, -3 ... until no row,
// soft-deleted ones included, holds it.
func uniqueSlug(db *gorm.DB, model interface{}, title string, exclude uuid.UUID) (string, error) {
	base := derive.Slugify(title)
	if base == "" {
		return "", fmt.Errorf("title %q has no usable characters", title)
	}

	slug := base
	for i := 2; ; i++ {
		var count int64
		query := db.Unscoped().Model(model).Where("slug = ?", slug)
		if exclude != uuid.Nil {
			query = query.Where("id <> ?", exclude)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func respondCached(c *gin.Context, scope string) bool {
	provider := middleware.GetCache(c)
	if provider == nil {
		return false
	}
	body, err := cache.NewListing(provider, scope, cacheTTL(c)).Get(c.Request.Context(), c.Request.URL.RawQuery)
	if err != nil {
		if !cache.IsCacheMiss(err) {
			logrus.WithError(err).WithField("scope", scope).Warn("cache read failed")
		}
		return false
	}
	c.Header("X-Cache", "HIT")
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	return true
}

// respondAndCache writes payload and keeps the encoded body for identical
// queries until the scope is invalidated.
func respondAndCache(c *gin.Context, scope string, payload gin.H) {
	body, err := json.Marshal(payload)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to encode response.")
		return
	}
	if provider := middleware.GetCache(c); provider != nil {
		listing := cache.NewListing(provider, scope, cacheTTL(c))
		if err := listing.Set(c.Request.Context(), c.Request.URL.RawQuery, body); err != nil {
			logrus.WithError(err).WithField("scope", scope).Warn("cache write failed")
		}
		c.Header("X-Cache", "MISS")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func invalidate(c *gin.Context, scopes ...string) {
	provider := middleware.GetCache(c)
	if provider == nil {
		return
	}
	for _, scope := range scopes {
		if err := cache.NewListing(provider, scope, cacheTTL(c)).Invalidate(c.Request.Context()); err != nil {
			logrus.WithError(err).WithField("scope", scope).Warn("cache invalidation failed")
		}
	}
}

// likeEscaper makes LIKE wildcards match literally; clauses using the
// pattern must declare ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likeAny matches pattern against any of the lowercased columns.
func likeAny(columns ...string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
	}
	return strings.Join(parts, " OR ")
}

func likePattern(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	return "%" + likeEscaper.Replace(q) + "%"
}
