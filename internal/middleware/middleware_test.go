package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farellandr/clubhub/config"
	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/helpers"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(ConfigMiddleware(&config.Config{JWTSecret: testSecret}))

	r.GET("/public", OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": IsAdmin(c)})
	})
	r.GET("/me", JWTAuthMiddleware(), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id.String()})
	})
	r.GET("/admin", JWTAuthMiddleware(), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func request(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := newRouter()
	id := uuid.New()
	token, err := helpers.GenerateToken(id, string(club.RoleMember), testSecret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", "garbage").Code)

	w := request(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.String())
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter()
	member, _ := helpers.GenerateToken(uuid.New(), "member", testSecret, time.Hour)
	admin, _ := helpers.GenerateToken(uuid.New(), "admin", testSecret, time.Hour)
	super, _ := helpers.GenerateToken(uuid.New(), "superadmin", testSecret, time.Hour)

	assert.Equal(t, http.StatusForbidden, request(r, "/admin", member).Code)
	assert.Equal(t, http.StatusNoContent, request(r, "/admin", admin).Code)
	assert.Equal(t, http.StatusNoContent, request(r, "/admin", super).Code)
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter()
	admin, _ := helpers.GenerateToken(uuid.New(), "admin", testSecret, time.Hour)

	assert.JSONEq(t, `{"admin":false}`, request(r, "/public", "").Body.String())
	assert.JSONEq(t, `{"admin":false}`, request(r, "/public", "garbage").Body.String())
	assert.JSONEq(t, `{"admin":true}`, request(r, "/public", admin).Body.String())
}

func TestIPRateLimiter(t *testing.T) {
	rl := NewIPRateLimiter(0.001, 2, time.Minute)
	defer rl.StopCleanup()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))

	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	rl.StopCleanup()
}
