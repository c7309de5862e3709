// Package apitest runs the full API on an httptest server for client tests.
package apitest

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farellandr/clubhub/config"
	"github.com/farellandr/clubhub/internal/cache"
	"github.com/farellandr/clubhub/internal/dbtest"
	"github.com/farellandr/clubhub/internal/server"
	"github.com/farellandr/clubhub/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	AdminEmail = "admin@club.example"
	Password   = "secret123"
)

// PNG is the smallest body the upload sniffer accepts as image/png.
var PNG = []byte("\x89PNG\x0D\x0A\x1A\x0A" + "fake-image-body")

// NewServer starts the API on in-memory sqlite, a temp upload directory and
// the ristretto cache. AdminEmail registers as an admin.
func NewServer(t testing.TB) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logrus.SetOutput(io.Discard)

	cfg := &config.Config{
		ServerPort:          8080,
		SiteURL:             "https://club.example",
		Timezone:            "UTC",
		JWTSecret:           "0123456789abcdef0123456789abcdef",
		JWTExpiresIn:        time.Hour,
		AdminEmails:         []string{AdminEmail},
		CacheTTL:            time.Minute,
		UploadMaxSizeMB:     1,
		UploadMaxFiles:      3,
		RateLimitAuthRPS:    100,
		RateLimitAuthBurst:  100,
		RateLimitExpireTime: time.Minute,
	}

	provider, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	memory, err := cache.NewMemory(cache.MemoryConfig{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64})
	if err != nil {
		t.Fatalf("memory cache: %v", err)
	}
	t.Cleanup(func() { memory.Close() })

	router, cleanup := server.NewRouter(server.Dependencies{Config: cfg, DB: dbtest.Open(t), Storage: provider, Cache: memory})
	t.Cleanup(cleanup)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// Tomorrow is a calendar day that always lists as upcoming.
func Tomorrow() string {
	return time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02")
}
