package club

import (
	"strings"
	"time"
)

const (
	DayLayout   = "2006-01-02"
	ClockLayout = "15:04"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Winner struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Team     string `json:"team,omitempty"`
}

type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	StartsAt         time.Time `json:"starts_at"`
	Venue            string    `json:"venue"`
	Category         Category  `json:"category"`
	ImageURL         string    `json:"image_url"`
	MediaURLs        []string  `json:"media_urls"`
	IsPublished      bool      `json:"is_published"`
	Capacity         int       `json:"capacity"`
	Participants     int       `json:"participants"`
	Winners          []Winner  `json:"winners,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// When falls back to the calendar day when the server did not send an
// absolute start.
func (e Event) When() time.Time {
	if !e.StartsAt.IsZero() {
		return e.StartsAt
	}
	return ParseDay(e.Date)
}

func (e Event) CategoryName() string { return e.Category.Name }

func (e Event) SearchFields() []string {
	return []string{e.Title, e.ShortDescription, e.Description}
}

// SeatsLeft is -1 for events without a capacity.
func (e Event) SeatsLeft() int {
	if e.Capacity <= 0 {
		return -1
	}
	if e.Participants >= e.Capacity {
		return 0
	}
	return e.Capacity - e.Participants
}

func (e Event) HasWinners() bool { return len(e.Winners) > 0 }

// ParseDay returns the zero time for anything that is not YYYY-MM-DD.
func ParseDay(s string) time.Time {
	t, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
