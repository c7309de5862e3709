package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farellandr/clubhub/internal/models"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.AdminEmails)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clubhub.env")
	content := "SERVER_PORT=9090\nADMIN_EMAILS=lead@club.in, second@club.in\nCACHE_TTL=5m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("SUPERADMIN_EMAILS", "root@club.in")
	t.Setenv("SERVER_DOMAIN", "https://api.club.in/")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []string{"lead@club.in", "second@club.in"}, cfg.AdminEmails)
	assert.Equal(t, []string{"root@club.in"}, cfg.SuperadminEmails)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "https://api.club.in", cfg.BaseURL())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DBType: "sqlite", JWTSecret: "short"}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())

	cfg.DBType = "mysql"
	assert.Error(t, cfg.Validate())
}

func TestLocationFallback(t *testing.T) {
	assert.Equal(t, time.UTC, (&Config{Timezone: "Nowhere/Land"}).Location())
	assert.Equal(t, "Asia/Kolkata", (&Config{Timezone: "Asia/Kolkata"}).Location().String())
}

func TestMigrateSeeds(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	// idempotent
	require.NoError(t, Migrate(db))

	var roles int64
	db.Model(&models.Role{}).Count(&roles)
	assert.Equal(t, int64(3), roles)

	var categories int64
	db.Model(&models.Category{}).Count(&categories)
	assert.Equal(t, int64(len(models.DefaultCategories)), categories)
}
