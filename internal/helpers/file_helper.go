package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/farellandr/clubhub/internal/models"
	"github.com/farellandr/clubhub/internal/storage"
	"github.com/google/uuid"
)

type UploadConfig struct {
	MaxSizeBytes     int64
	AllowedMimeTypes []string
}

var DefaultImageUploadConfig = UploadConfig{
	MaxSizeBytes: 5 * 1024 * 1024, // 5MB
	AllowedMimeTypes: []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	},
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadFile sniffs the content type, stores the file under a fresh
// identifier starting with prefix and returns that identifier.
func UploadFile(ctx context.Context, provider storage.Provider, fileHeader *multipart.FileHeader, prefix string, configs ...UploadConfig) (string, error) {
	config := DefaultImageUploadConfig
	if len(configs) > 0 {
		config = configs[0]
	}

	if fileHeader.Size > config.MaxSizeBytes {
		return "", fmt.Errorf("file size exceeds maximum limit of %d MB", config.MaxSizeBytes/(1024*1024))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	mimeType := http.DetectContentType(buffer[:n])

	mimeTypeAllowed := false
	for _, allowedType := range config.AllowedMimeTypes {
		if mimeType == allowedType {
			mimeTypeAllowed = true
			break
		}
	}
	if !mimeTypeAllowed {
		return "", fmt.Errorf("invalid file type. Allowed types: %v", config.AllowedMimeTypes)
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	identifier := fmt.Sprintf("%s-%s%s", prefix, uuid.New().String(), imageExtensions[mimeType])
	if err := provider.Save(ctx, identifier, src, fileHeader.Size, mimeType); err != nil {
		return "", err
	}

	return identifier, nil
}

// DeleteFile removes a stored upload. External links and files that are
// already gone are ignored.
func DeleteFile(ctx context.Context, provider storage.Provider, identifier string) error {
	if !models.IsStoredMedia(identifier) {
		return nil
	}
	err := provider.Delete(ctx, identifier)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}
