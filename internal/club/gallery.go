package club

import "time"

type Occasion struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Category    Category  `json:"category"`
	CoverImage  string    `json:"cover_image"`
	IsPublished bool      `json:"is_published"`
	PhotoCount  int64     `json:"photo_count"`
	Photos      []Photo   `json:"photos,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (o Occasion) When() time.Time { return ParseDay(o.Date) }

func (o Occasion) CategoryName() string { return o.Category.Name }

func (o Occasion) SearchFields() []string {
	return []string{o.Title, o.Description}
}

type Photo struct {
	ID         string    `json:"id"`
	OccasionID string    `json:"occasion_id"`
	Caption    string    `json:"caption"`
	URL        string    `json:"url"`
	IsApproved bool      `json:"is_approved"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}
