package models

import (
	"time"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GalleryOccasion struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Title       string    `gorm:"not null"`
	Slug        string    `gorm:"unique;not null"`
	Description string    `gorm:"type:text"`
	Date        string    `gorm:"type:varchar(10);not null;index"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Category    Category
	CoverPath   string
	IsPublished bool           `gorm:"not null;default:false;index"`
	Photos      []GalleryPhoto `gorm:"foreignKey:OccasionID"`
	PhotoCount  int64          `gorm:"-"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (occasion *GalleryOccasion) BeforeCreate(tx *gorm.DB) (err error) {
	if occasion.ID == uuid.Nil {
		occasion.ID = uuid.New()
	}
	return
}

// Record includes whatever photos were loaded; PhotoCount is filled by the
// caller.
func (occasion *GalleryOccasion) Record(baseURL string) club.Occasion {
	rec := club.Occasion{
		ID:          occasion.ID.String(),
		Title:       occasion.Title,
		Slug:        occasion.Slug,
		Description: occasion.Description,
		Date:        occasion.Date,
		Category:    occasion.Category.Record(),
		CoverImage:  MediaURL(baseURL, occasion.CoverPath),
		IsPublished: occasion.IsPublished,
		PhotoCount:  occasion.PhotoCount,
		CreatedAt:   occasion.CreatedAt,
		UpdatedAt:   occasion.UpdatedAt,
	}
	for i := range occasion.Photos {
		rec.Photos = append(rec.Photos, occasion.Photos[i].Record(baseURL))
	}
	return rec
}

type GalleryPhoto struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	OccasionID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Caption      string
	Path         string    `gorm:"not null"`
	IsApproved   bool      `gorm:"not null;default:false;index"`
	UploadedByID uuid.UUID `gorm:"type:uuid;index"`
	UploadedBy   User      `gorm:"foreignKey:UploadedByID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (photo *GalleryPhoto) BeforeCreate(tx *gorm.DB) (err error) {
	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}
	return
}

func (photo *GalleryPhoto) Record(baseURL string) club.Photo {
	return club.Photo{
		ID:         photo.ID.String(),
		OccasionID: photo.OccasionID.String(),
		Caption:    photo.Caption,
		URL:        MediaURL(baseURL, photo.Path),
		IsApproved: photo.IsApproved,
		UploadedBy: photo.UploadedBy.Name,
		CreatedAt:  photo.CreatedAt,
	}
}

// ApprovedPhotoCounts returns approved photo totals keyed by occasion.
func ApprovedPhotoCounts(db *gorm.DB, occasionIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(occasionIDs))
	if len(occasionIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		OccasionID uuid.UUID
		Total      int64
	}
	err := db.Model(&GalleryPhoto{}).
		Select("occasion_id, count(*) as total").
		Where("occasion_id IN ? AND is_approved = ?", occasionIDs, true).
		Group("occasion_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.OccasionID] = r.Total
	}
	return counts, nil
}
