package models

import (
	"testing"
	"time"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMediaURL(t *testing.T) {
	assert.Equal(t, "", MediaURL("http://api", ""))
	assert.Equal(t, "https://cdn.example.com/a.jpg", MediaURL("http://api", "https://cdn.example.com/a.jpg"))
	assert.Equal(t, "http://api/media/event-1.jpg", MediaURL("http://api/", "event-1.jpg"))

	assert.True(t, IsStoredMedia("event-1.jpg"))
	assert.False(t, IsStoredMedia("http://x/y.jpg"))
	assert.False(t, IsStoredMedia(""))
}

func TestUserRecordDerivesAcademicYear(t *testing.T) {
	u := User{
		ID:             uuid.New(),
		Name:           "Asha",
		Email:          "asha@club.in",
		RollNumber:     "2023BMS-025",
		Branch:         "BMS",
		EnrollmentYear: 2023,
		Role:           Role{Name: "admin"},
	}

	rec := u.Record(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, rec.AcademicYear)
	assert.Equal(t, club.RoleAdmin, rec.Role)
	assert.Equal(t, "BMS", rec.Branch)
}

func TestEventRecord(t *testing.T) {
	catID := uuid.New()
	e := Event{
		ID:        uuid.New(),
		Title:     "Hackathon",
		Date:      "2024-03-15",
		Category:  Category{ID: catID, Name: "Technical", Slug: "technical"},
		ImagePath: "event-abc.png",
		MediaURLs: []string{"https://yt.example/v", "event-def.png"},
		Winners:   []club.Winner{{Position: 1, Name: "Team Rocket"}},
	}

	rec := e.Record("http://api")
	assert.Equal(t, "Technical", rec.Category.Name)
	assert.Equal(t, catID.String(), rec.Category.ID)
	assert.Equal(t, "http://api/media/event-abc.png", rec.ImageURL)
	assert.Equal(t, []string{"https://yt.example/v", "http://api/media/event-def.png"}, rec.MediaURLs)
	assert.True(t, rec.HasWinners())
}

func TestCategoryRecordEmpty(t *testing.T) {
	assert.Equal(t, club.Category{}, (&Category{}).Record())
}
