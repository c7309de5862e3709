package handlers

import (
	"testing"

	"github.com/farellandr/clubhub/internal/dbtest"
	"github.com/farellandr/clubhub/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueSlugSkipsSoftDeletedRows(t *testing.T) {
	db := dbtest.Open(t)
	category, err := models.ResolveCategory(db, "")
	require.NoError(t, err)

	slug, err := uniqueSlug(db, &models.GalleryOccasion{}, "Sports Day!", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "sports-day", slug)

	occasion := models.GalleryOccasion{Title: "Sports Day", Slug: slug, Date: "2024-01-01", CategoryID: category.ID}
	require.NoError(t, db.Create(&occasion).Error)
	require.NoError(t, db.Delete(&occasion).Error)

	next, err := uniqueSlug(db, &models.GalleryOccasion{}, "Sports Day", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "sports-day-2", next)

	own, err := uniqueSlug(db, &models.GalleryOccasion{}, "Sports Day", occasion.ID)
	require.NoError(t, err)
	assert.Equal(t, "sports-day", own)

	_, err = uniqueSlug(db, &models.GalleryOccasion{}, "!!!", uuid.Nil)
	assert.Error(t, err)
}

func TestSplitFormList(t *testing.T) {
	got := splitFormList([]string{"https://a.example/v, https://b.example/v", "", "https://c.example/v\nhttps://d.example/v"})
	assert.Equal(t, []string{"https://a.example/v", "https://b.example/v", "https://c.example/v", "https://d.example/v"}, got)
	assert.Nil(t, splitFormList(nil))
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{" Robot ", "%robot%"},
		{"code_fest", `%code\_fest%`},
		{"50% OFF", `%50\% off%`},
		{`a\b`, `%a\\b%`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, likePattern(tt.in), tt.in)
	}
	assert.Equal(t, `LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, likeAny("title", "description"))
}
