package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/farellandr/clubhub/internal/club"
)

type OccasionQuery struct {
	Category           string
	Search             string
	Page               int
	Limit              int
	IncludeUnpublished bool
}

func (q OccasionQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
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

type OccasionPage struct {
	Occasions []club.Occasion `json:"occasions"`
	Pagination
}

type OccasionInput struct {
	Title       string
	Description string
	Date        string
	Category    string
	CoverImage  string
	IsPublished bool
	Cover       *File
}

func (in OccasionInput) body() (io.Reader, string, error) {
	f := newForm()
	f.field("title", in.Title)
	f.field("description", in.Description)
	f.field("date", in.Date)
	f.field("category", in.Category)
	f.field("cover_image", in.CoverImage)
	f.field("is_published", boolString(in.IsPublished))
	if in.Cover != nil {
		f.file("cover", *in.Cover)
	}
	return f.close()
}

func occasionPath(idOrSlug string) string {
	return "/api/gallery/occasions/" + url.PathEscape(idOrSlug)
}

func (c *Client) ListOccasions(ctx context.Context, q OccasionQuery) Result[OccasionPage] {
	return do[OccasionPage](ctx, c, request{method: http.MethodGet, path: "/api/gallery/occasions", query: q.values()})
}

func (c *Client) GetOccasion(ctx context.Context, idOrSlug string) Result[club.Occasion] {
	return do[club.Occasion](ctx, c, request{method: http.MethodGet, path: occasionPath(idOrSlug), key: "occasion"})
}

func (c *Client) CreateOccasion(ctx context.Context, in OccasionInput) Result[club.Occasion] {
	body, contentType, err := in.body()
	if err != nil {
		return failure[club.Occasion](0, "failed to build form: %v", err)
	}
	return do[club.Occasion](ctx, c, request{
		method: http.MethodPost, path: "/api/gallery/occasions",
		body: body, contentType: contentType, key: "occasion",
	})
}

func (c *Client) UpdateOccasion(ctx context.Context, id string, in OccasionInput) Result[club.Occasion] {
	body, contentType, err := in.body()
	if err != nil {
		return failure[club.Occasion](0, "failed to build form: %v", err)
	}
	return do[club.Occasion](ctx, c, request{
		method: http.MethodPut, path: occasionPath(id),
		body: body, contentType: contentType, key: "occasion",
	})
}

func (c *Client) DeleteOccasion(ctx context.Context, id string) Result[struct{}] {
	return do[struct{}](ctx, c, request{method: http.MethodDelete, path: occasionPath(id)})
}

// ListPhotos returns approved photos; includePending only has an effect for
// admins.
func (c *Client) ListPhotos(ctx context.Context, occasionID string, includePending bool) Result[[]club.Photo] {
	q := url.Values{}
	if includePending {
		q.Set("include_pending", "true")
	}
	return do[[]club.Photo](ctx, c, request{
		method: http.MethodGet, path: occasionPath(occasionID) + "/photos", query: q, key: "photos",
	})
}

func (c *Client) UploadPhotos(ctx context.Context, occasionID, caption string, files []File) Result[[]club.Photo] {
	if len(files) == 0 {
		return failure[[]club.Photo](0, "no photos selected")
	}
	f := newForm()
	f.field("caption", caption)
	for _, file := range files {
		f.file("photos", file)
	}
	body, contentType, err := f.close()
	if err != nil {
		return failure[[]club.Photo](0, "failed to build form: %v", err)
	}
	return do[[]club.Photo](ctx, c, request{
		method: http.MethodPost, path: occasionPath(occasionID) + "/photos",
		body: body, contentType: contentType, key: "photos",
	})
}

func (c *Client) ApprovePhoto(ctx context.Context, id string, approved bool) Result[club.Photo] {
	body, err := jsonBody(map[string]bool{"approved": approved})
	if err != nil {
		return failure[club.Photo](0, "failed to encode request: %v", err)
	}
	return do[club.Photo](ctx, c, request{
		method: http.MethodPatch, path: "/api/gallery/photos/" + url.PathEscape(id) + "/approve",
		body: body, contentType: "application/json", key: "photo",
	})
}

func (c *Client) DeletePhoto(ctx context.Context, id string) Result[struct{}] {
	return do[struct{}](ctx, c, request{method: http.MethodDelete, path: "/api/gallery/photos/" + url.PathEscape(id)})
}
