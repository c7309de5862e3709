package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/derive"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var DefaultCategories = []string{"General", "Technical", "Cultural", "Sports", "Workshop"}

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"unique;not null"`
	Slug      string    `gorm:"unique;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (category *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if category.Slug == "" {
		category.Slug = derive.Slugify(category.Name)
	}
	return
}

func (category *Category) Record() club.Category {
	if category.ID == uuid.Nil {
		return club.Category{}
	}
	return club.Category{ID: category.ID.String(), Name: category.Name, Slug: category.Slug}
}

// ResolveCategory finds a category by name or creates it. An empty name maps
// to "General".
func ResolveCategory(db *gorm.DB, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "General"
	}
	if derive.Slugify(name) == "" {
		return nil, fmt.Errorf("invalid category name %q", name)
	}

	var category Category
	err := db.Where("name = ?", name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category = Category{Name: name}
	if err := db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
