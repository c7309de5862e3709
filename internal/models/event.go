package models

import (
	"time"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	Title            string    `gorm:"not null"`
	Slug             string    `gorm:"unique;not null"`
	ShortDescription string
	Description      string    `gorm:"type:text;not null"`
	Date             string    `gorm:"type:varchar(10);not null;index"`
	Time             string    `gorm:"type:varchar(5)"`
	StartsAt         time.Time `gorm:"not null;index"`
	Venue            string
	CategoryID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Category         Category
	ImagePath        string
	MediaURLs        []string      `gorm:"serializer:json"`
	IsPublished      bool          `gorm:"not null;default:false;index"`
	Capacity         int           `gorm:"not null;default:0"`
	Participants     int           `gorm:"not null;default:0"`
	Winners          []club.Winner `gorm:"serializer:json"`
	CreatedBy        uuid.UUID     `gorm:"type:uuid"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// BeforeSave stores StartsAt in UTC so range queries compare the same way on
// every driver.
func (event *Event) BeforeSave(tx *gorm.DB) (err error) {
	event.StartsAt = event.StartsAt.UTC()
	return
}

// Record expects Category to be preloaded; baseURL turns stored media
// identifiers into links.
func (event *Event) Record(baseURL string) club.Event {
	media := make([]string, 0, len(event.MediaURLs))
	for _, m := range event.MediaURLs {
		media = append(media, MediaURL(baseURL, m))
	}
	return club.Event{
		ID:               event.ID.String(),
		Title:            event.Title,
		Slug:             event.Slug,
		ShortDescription: event.ShortDescription,
		Description:      event.Description,
		Date:             event.Date,
		Time:             event.Time,
		StartsAt:         event.StartsAt,
		Venue:            event.Venue,
		Category:         event.Category.Record(),
		ImageURL:         MediaURL(baseURL, event.ImagePath),
		MediaURLs:        media,
		IsPublished:      event.IsPublished,
		Capacity:         event.Capacity,
		Participants:     event.Participants,
		Winners:          event.Winners,
		CreatedAt:        event.CreatedAt,
		UpdatedAt:        event.UpdatedAt,
	}
}
