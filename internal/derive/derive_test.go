package derive

import (
	"testing"
	"time"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func sampleEvents() []club.Event {
	return []club.Event{
		{ID: "1", Title: "Hackathon", Description: "24h build sprint", StartsAt: now.Add(48 * time.Hour), Category: club.Category{Name: "Technical"}},
		{ID: "2", Title: "Open Mic", Description: "Poetry and music", StartsAt: now.Add(-72 * time.Hour), Category: club.Category{Name: "Cultural"}},
		{ID: "3", Title: "Quiz Night", ShortDescription: "General QUIZ", StartsAt: now, Category: club.Category{Name: "Technical"}},
		{ID: "4", Title: "Alumni Meet", Description: "Networking", StartsAt: now.Add(-time.Minute), Category: club.Category{Name: "Networking"}},
	}
}

func ids(events []club.Event) []string {
	var out []string
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestPartition(t *testing.T) {
	up, past := Partition(sampleEvents(), now)

	assert.Equal(t, []string{"1", "3"}, ids(up))
	assert.Equal(t, []string{"2", "4"}, ids(past))
}

func TestPartitionBoundaryIsUpcoming(t *testing.T) {
	e := []club.Event{{ID: "x", StartsAt: now}}
	assert.Len(t, Upcoming(e, now), 1)
	assert.Empty(t, Past(e, now))
}

func TestPartitionUsesDayWhenStartMissing(t *testing.T) {
	occasions := []club.Occasion{
		{ID: "a", Date: "2024-03-20"},
		{ID: "b", Date: "2024-03-01"},
	}
	up, past := Partition(occasions, now)
	assert.Equal(t, "a", up[0].ID)
	assert.Equal(t, "b", past[0].ID)
}

func TestByCategory(t *testing.T) {
	events := sampleEvents()

	tests := []struct {
		name     string
		category string
		want     []string
	}{
		{"all returns everything", "all", []string{"1", "2", "3", "4"}},
		{"all is case-insensitive", "ALL", []string{"1", "2", "3", "4"}},
		{"empty returns everything", "", []string{"1", "2", "3", "4"}},
		{"exact match", "Technical", []string{"1", "3"}},
		{"match is exact not folded", "technical", nil},
		{"unknown category", "Sports", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(ByCategory(events, tt.category)))
		})
	}
}

func TestSearch(t *testing.T) {
	events := sampleEvents()

	tests := []struct {
		query string
		want  []string
	}{
		{"hack", []string{"1"}},
		{"MUSIC", []string{"2"}},
		{"quiz", []string{"3"}},
		{"  ", []string{"1", "2", "3", "4"}},
		{"nothing here", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Search(events, tt.query)))
		})
	}
}

func TestSortByDate(t *testing.T) {
	events := sampleEvents()

	asc := SortByDate(events, false)
	assert.Equal(t, []string{"2", "4", "3", "1"}, ids(asc))

	desc := SortByDate(events, true)
	assert.Equal(t, []string{"1", "3", "4", "2"}, ids(desc))

	// input untouched
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(events))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Technical", "Cultural", "Networking"}, Categories(sampleEvents()))
}
