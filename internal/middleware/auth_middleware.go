package middleware

import (
	"net/http"
	"strings"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/helpers"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "role"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authorization header is missing or malformed.")
			return
		}

		cfg := GetConfig(c)
		if cfg == nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Server configuration not found.")
			return
		}

		userID, role, err := helpers.ParseToken(token, cfg.JWTSecret)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRoleKey, club.Role(role))
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		cfg := GetConfig(c)
		if ok && cfg != nil {
			if userID, role, err := helpers.ParseToken(token, cfg.JWTSecret); err == nil {
				c.Set(ContextUserIDKey, userID)
				c.Set(ContextRoleKey, club.Role(role))
			}
		}
		c.Next()
	}
}

func RequireRole(allowedRoles ...club.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := CurrentRole(c)
		if !exists {
			helpers.RespondWithError(c, http.StatusForbidden, "Access denied. Role information not found.")
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		helpers.RespondWithError(c, http.StatusForbidden, "Access denied. You do not have the required role to access this resource.")
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(club.RoleAdmin, club.RoleSuperadmin)
}

func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func CurrentRole(c *gin.Context) (club.Role, bool) {
	v, exists := c.Get(ContextRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(club.Role)
	return role, ok
}

func IsAdmin(c *gin.Context) bool {
	role, _ := CurrentRole(c)
	return role.IsAdmin()
}
