package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/farellandr/clubhub/internal/club"
)

type EventQuery struct {
	Category           string
	Status             string // "upcoming", "past" or empty
	Search             string
	Page               int
	Limit              int
	IncludeUnpublished bool
}

func (q EventQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.IncludeUnpublished {
		v.Set("include_unpublished", "true")
	}
	pageQuery(v, q.Page, q.Limit)
	return v
}

type EventPage struct {
	Events []club.Event `json:"events"`
	Pagination
}

type EventInput struct {
	Title            string
	ShortDescription string
	Description      string
	Date             string
	Time             string
	Venue            string
	Category         string
	ImageURL         string
	MediaURLs        []string
	IsPublished      bool
	Capacity         int
	Participants     int
	Winners          []club.Winner
	Image            *File
}

func (in EventInput) body() (io.Reader, string, error) {
	f := newForm()
	f.field("title", in.Title)
	f.field("short_description", in.ShortDescription)
	f.field("description", in.Description)
	f.field("date", in.Date)
	f.field("time", in.Time)
	f.field("venue", in.Venue)
	f.field("category", in.Category)
	f.field("image_url", in.ImageURL)
	f.field("media_urls", strings.Join(in.MediaURLs, ","))
	f.field("is_published", boolString(in.IsPublished))
	f.field("capacity", fmt.Sprint(in.Capacity))
	f.field("participants", fmt.Sprint(in.Participants))
	if len(in.Winners) > 0 {
		data, err := json.Marshal(in.Winners)
		if err != nil {
			return nil, "", err
		}
		f.field("winners", string(data))
	}
	if in.Image != nil {
		f.file("image", *in.Image)
	}
	return f.close()
}

func (c *Client) ListEvents(ctx context.Context, q EventQuery) Result[EventPage] {
	return do[EventPage](ctx, c, request{method: http.MethodGet, path: "/api/events", query: q.values()})
}

// GetEvent accepts an id or a slug.
func (c *Client) GetEvent(ctx context.Context, idOrSlug string) Result[club.Event] {
	return do[club.Event](ctx, c, request{
		method: http.MethodGet,
		path:   "/api/events/" + url.PathEscape(idOrSlug),
		key:    "event",
	})
}

func (c *Client) CreateEvent(ctx context.Context, in EventInput) Result[club.Event] {
	body, contentType, err := in.body()
	if err != nil {
		return failure[club.Event](0, "failed to build form: %v", err)
	}
	return do[club.Event](ctx, c, request{
		method: http.MethodPost, path: "/api/events",
		body: body, contentType: contentType, key: "event",
	})
}

func (c *Client) UpdateEvent(ctx context.Context, id string, in EventInput) Result[club.Event] {
	body, contentType, err := in.body()
	if err != nil {
		return failure[club.Event](0, "failed to build form: %v", err)
	}
	return do[club.Event](ctx, c, request{
		method: http.MethodPut, path: "/api/events/" + url.PathEscape(id),
		body: body, contentType: contentType, key: "event",
	})
}

func (c *Client) DeleteEvent(ctx context.Context, id string) Result[struct{}] {
	return do[struct{}](ctx, c, request{method: http.MethodDelete, path: "/api/events/" + url.PathEscape(id)})
}

func (c *Client) ListCategories(ctx context.Context) Result[[]club.Category] {
	return do[[]club.Category](ctx, c, request{method: http.MethodGet, path: "/api/categories", key: "categories"})
}

// EventQR fetches the PNG share code of an event.
func (c *Client) EventQR(ctx context.Context, idOrSlug string, size int) Result[[]byte] {
	q := url.Values{}
	if size > 0 {
		q.Set("size", fmt.Sprint(size))
	}
	resp, err := c.raw(ctx, request{method: http.MethodGet, path: "/api/events/" + url.PathEscape(idOrSlug) + "/qr", query: q})
	if err != nil {
		return failure[[]byte](0, "request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure[[]byte](resp.StatusCode, "failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		var env envelope
		if json.Unmarshal(data, &env) == nil && env.Message != "" {
			return failure[[]byte](resp.StatusCode, "%s", env.Message)
		}
		return failure[[]byte](resp.StatusCode, "%s", http.StatusText(resp.StatusCode))
	}
	return Result[[]byte]{Success: true, Status: resp.StatusCode, Data: data}
}
