package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/farellandr/clubhub/config"
	"github.com/farellandr/clubhub/internal/cache"
	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/handlers"
	"github.com/farellandr/clubhub/internal/middleware"
	"github.com/farellandr/clubhub/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var startTime = time.Now()

type Dependencies struct {
	Config  *config.Config
	DB      *gorm.DB
	Storage storage.Provider
	// Cache is optional.
	Cache cache.Provider
}

// Start wires every dependency from cfg and serves until ctx is cancelled,
// then shuts down gracefully.
func Start(ctx context.Context, cfg *config.Config) error {
	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := config.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	cacheProvider, err := cache.New(cache.Options{
		Type:          cfg.CacheType,
		MaxCostMB:     cfg.CacheMaxCostMB,
		RedisAddr:     cfg.CacheRedisAddr,
		RedisPassword: cfg.CacheRedisPassword,
		RedisDB:       cfg.CacheRedisDB,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer cacheProvider.Close()

	srv, cleanup := New(Dependencies{Config: cfg, DB: db, Storage: store, Cache: cacheProvider})
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"storage": store.Name(),
			"cache":   cacheProvider.Name(),
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// New returns the HTTP server and a cleanup func stopping background work.
func New(deps Dependencies) (*http.Server, func()) {
	router, cleanup := NewRouter(deps)
	cfg := deps.Config
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}, cleanup
}

func NewRouter(deps Dependencies) (*gin.Engine, func()) {
	cfg := deps.Config
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.MaxMultipartMemory = cfg.UploadMaxBytes()

	r.Use(middleware.ConfigMiddleware(cfg))
	r.Use(middleware.DatabaseMiddleware(deps.DB))
	r.Use(middleware.StorageMiddleware(deps.Storage))
	if deps.Cache != nil {
		r.Use(middleware.CacheMiddleware(deps.Cache))
	}

	authLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)

	r.GET("/health", healthHandler(deps))
	r.GET("/media/:identifier", handlers.ServeMedia)

	setupRoutes(r, authLimiter)

	return r, authLimiter.StopCleanup
}

// corsConfig allows every origin when none, or "*", is configured.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			origins = nil
			break
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
		return c
	}
	c.AllowOrigins = origins
	return c
}

func setupRoutes(r *gin.Engine, authLimiter *middleware.IPRateLimiter) {
	api := r.Group("/api")
	api.Use(middleware.OptionalAuth())

	authenticated := middleware.JWTAuthMiddleware()
	admin := []gin.HandlerFunc{authenticated, middleware.RequireAdmin()}

	auth := api.Group("/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), handlers.Register)
		auth.POST("/login", authLimiter.Middleware(), handlers.Login)
		auth.GET("/me", authenticated, handlers.GetProfile)
	}

	events := api.Group("/events")
	{
		events.GET("", handlers.ListEvents)
		events.GET("/:id", handlers.GetEvent)
		events.GET("/:id/qr", handlers.GetEventQR)

		eventAdmin := events.Group("", admin...)
		eventAdmin.POST("", handlers.CreateEvent)
		eventAdmin.PUT("/:id", handlers.UpdateEvent)
		eventAdmin.DELETE("/:id", handlers.DeleteEvent)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", handlers.ListCategories)

		categoryAdmin := categories.Group("", admin...)
		categoryAdmin.POST("", handlers.CreateCategory)
		categoryAdmin.PUT("/:id", handlers.UpdateCategory)
		categoryAdmin.DELETE("/:id", handlers.DeleteCategory)
	}

	gallery := api.Group("/gallery")
	{
		gallery.GET("/occasions", handlers.ListOccasions)
		gallery.GET("/occasions/:id", handlers.GetOccasion)
		gallery.GET("/occasions/:id/photos", handlers.ListPhotos)
		gallery.POST("/occasions/:id/photos", authenticated, handlers.UploadPhotos)

		galleryAdmin := gallery.Group("", admin...)
		galleryAdmin.POST("/occasions", handlers.CreateOccasion)
		galleryAdmin.PUT("/occasions/:id", handlers.UpdateOccasion)
		galleryAdmin.DELETE("/occasions/:id", handlers.DeleteOccasion)
		galleryAdmin.PATCH("/photos/:id/approve", handlers.ApprovePhoto)
		galleryAdmin.DELETE("/photos/:id", handlers.DeletePhoto)
	}

	dashboard := api.Group("/admin", admin...)
	{
		dashboard.GET("/stats", handlers.GetStats)
		dashboard.GET("/users", middleware.RequireRole(club.RoleSuperadmin), handlers.ListUsers)
	}
}

func healthHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{
			"database": checkDatabase(c.Request.Context(), deps.DB),
			"storage":  checkStorage(c.Request.Context(), deps.Storage),
		}
		if deps.Cache != nil {
			checks["cache"] = deps.Cache.Name()
		}

		status := http.StatusOK
		for name, result := range checks {
			if name != "cache" && result != "ok" {
				status = http.StatusServiceUnavailable
			}
		}

		c.JSON(status, gin.H{
			"success": status == http.StatusOK,
			"status":  http.StatusText(status),
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"checks":  checks,
		})
	}
}

func checkDatabase(ctx context.Context, db *gorm.DB) string {
	if db == nil {
		return "not configured"
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err.Error()
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}

func checkStorage(ctx context.Context, provider storage.Provider) string {
	if provider == nil {
		return "not configured"
	}
	if err := provider.Health(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
