package handlers

import (
	"net/http"

	"github.com/farellandr/clubhub/internal/helpers"
	"github.com/farellandr/clubhub/internal/middleware"
	"github.com/farellandr/clubhub/internal/models"
	"github.com/gin-gonic/gin"
)

func GetProfile(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	var user models.User
	if err := gormDB.Preload("Role").Where("id = ?", userID).First(&user).Error; err != nil {
		if isNotFound(err) {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving user.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user.Record(nowFunc()),
	})
}
