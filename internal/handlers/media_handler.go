package handlers

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/farellandr/clubhub/internal/helpers"
	"github.com/farellandr/clubhub/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ServeMedia streams an uploaded file from the configured storage.
func ServeMedia(c *gin.Context) {
	identifier := c.Param("identifier")
	if !storage.IsValidIdentifier(identifier) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid media identifier.")
		return
	}

	provider, ok := getStorage(c)
	if !ok {
		return
	}

	file, err := provider.Get(c.Request.Context(), identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Media not found.")
			return
		}
		logrus.WithError(err).WithField("identifier", identifier).Error("media read failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error reading media.")
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(identifier))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, -1, contentType, file, map[string]string{
		"Cache-Control": "public, max-age=31536000, immutable",
	})
}
