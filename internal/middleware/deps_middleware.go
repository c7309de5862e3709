package middleware

import (
	"github.com/farellandr/clubhub/config"
	"github.com/farellandr/clubhub/internal/cache"
	"github.com/farellandr/clubhub/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	dbKey      = "db"
	storageKey = "storage"
	cacheKey   = "cache"
	configKey  = "config"
)

func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbKey, db)
		c.Next()
	}
}

func GetDB(c *gin.Context) *gorm.DB {
	db, exists := c.Get(dbKey)
	if !exists {
		return nil
	}
	return db.(*gorm.DB)
}

func StorageMiddleware(provider storage.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(storageKey, provider)
		c.Next()
	}
}

func GetStorage(c *gin.Context) storage.Provider {
	provider, exists := c.Get(storageKey)
	if !exists {
		return nil
	}
	return provider.(storage.Provider)
}

// CacheMiddleware is optional; handlers skip caching when GetCache is nil.
func CacheMiddleware(provider cache.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cacheKey, provider)
		c.Next()
	}
}

func GetCache(c *gin.Context) cache.Provider {
	provider, exists := c.Get(cacheKey)
	if !exists || provider == nil {
		return nil
	}
	return provider.(cache.Provider)
}

func ConfigMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(configKey, cfg)
		c.Next()
	}
}

func GetConfig(c *gin.Context) *config.Config {
	cfg, exists := c.Get(configKey)
	if !exists {
		return nil
	}
	return cfg.(*config.Config)
}
