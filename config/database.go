package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var dialector gorm.Dialector
	switch cfg.DBType {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		path := cfg.DBFilePath
		if path == "" {
			path = "./data/clubhub.db"
		}
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dialector = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	logrus.WithField("db_type", cfg.DBType).Info("database connected")
	return db, nil
}

// Migrate creates the schema and seeds the role and default category rows.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Category{},
		&models.Event{},
		&models.GalleryOccasion{},
		&models.GalleryPhoto{},
	)
	if err != nil {
		return err
	}

	if err := seedRoles(db); err != nil {
		return err
	}
	return seedCategories(db)
}

func seedRoles(db *gorm.DB) error {
	for _, name := range []club.Role{club.RoleMember, club.RoleAdmin, club.RoleSuperadmin} {
		role := models.Role{Name: string(name)}
		if err := db.Where("name = ?", role.Name).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}
	return nil
}

func seedCategories(db *gorm.DB) error {
	for _, name := range models.DefaultCategories {
		if _, err := models.ResolveCategory(db, name); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", name, err)
		}
	}
	return nil
}
