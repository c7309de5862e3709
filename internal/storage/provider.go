// Package storage keeps uploaded media (event banners, occasion covers and
// gallery photos) on local disk or in a MinIO bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/farellandr/clubhub/config"
	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("file not found")

// Provider is implemented by every storage backend. Identifiers are flat
// names checked by IsValidIdentifier.
type Provider interface {
	Save(ctx context.Context, identifier string, file io.Reader, size int64, contentType string) error

	// Get returns ErrNotFound (wrapped) for unknown identifiers.
	Get(ctx context.Context, identifier string) (io.ReadCloser, error)

	Delete(ctx context.Context, identifier string) error

	Exists(ctx context.Context, identifier string) (bool, error)

	Health(ctx context.Context) error

	Name() string
}

// New builds the provider selected by storage_type.
func New(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.StorageType {
	case "", "local":
		p, err := NewLocal(cfg.StorageLocalPath)
		if err != nil {
			return nil, err
		}
		logrus.WithField("path", p.BasePath()).Info("Using local storage")
		return p, nil
	case "minio":
		p, err := NewMinio(ctx, MinioConfig{
			Endpoint:        cfg.MinioEndpoint,
			AccessKeyID:     cfg.MinioAccessKey,
			SecretAccessKey: cfg.MinioSecretKey,
			BucketName:      cfg.MinioBucket,
			UseSSL:          cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"endpoint": cfg.MinioEndpoint,
			"bucket":   cfg.MinioBucket,
		}).Info("Using minio storage")
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

// IsValidIdentifier accepts relative names made of letters, digits, '-',
// '_' and '.', without "..".
func IsValidIdentifier(identifier string) bool {
	if identifier == "" {
		return false
	}
	if filepath.IsAbs(identifier) {
		return false
	}
	if strings.Contains(identifier, "..") {
		return false
	}

	for _, r := range identifier {
		if !((r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.') {
			return false
		}
	}

	return true
}
