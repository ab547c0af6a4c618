package dto

import (
	"strings"
	"time"

	"github.com/amirphl/desa-ngasem/models"
	"github.com/lib/pq"
)

// CreateNewsRequest represents the payload to create a news article
// Content is markdown
type CreateNewsRequest struct {
	Title    string   `json:"title" validate:"required,notblank,max=255"`
	Content  string   `json:"content" validate:"required,notblank"`
	Excerpt  *string  `json:"excerpt,omitempty"`
	ImageURL *string  `json:"image_url,omitempty"`
	Author   *string  `json:"author,omitempty" validate:"omitnil,max=255"`
	Category *string  `json:"category,omitempty" validate:"omitnil,max=100"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,dive,notblank,max=50"`
	Status   string   `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
}

func (r *CreateNewsRequest) ToModel() models.NewsArticle {
	return models.NewsArticle{
		Title:    strings.TrimSpace(r.Title),
		Content:  r.Content,
		Excerpt:  r.Excerpt,
		ImageURL: r.ImageURL,
		Author:   r.Author,
		Category: r.Category,
		Tags:     tagsOf(r.Tags),
		Status:   defaultStatus(r.Status, models.NewsStatusDraft),
	}
}

// UpdateNewsRequest represents a partial update of a news article
type UpdateNewsRequest struct {
	Title    *string  `json:"title,omitempty" validate:"omitnil,notblank,max=255"`
	Content  *string  `json:"content,omitempty" validate:"omitnil,notblank"`
	Excerpt  *string  `json:"excerpt,omitempty"`
	ImageURL *string  `json:"image_url,omitempty"`
	Author   *string  `json:"author,omitempty" validate:"omitnil,max=255"`
	Category *string  `json:"category,omitempty" validate:"omitnil,max=100"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,dive,notblank,max=50"`
	Status   *string  `json:"status,omitempty" validate:"omitnil,oneof=draft published"`
}

func (r *UpdateNewsRequest) Apply(n *models.NewsArticle) {
	setTrimmed(&n.Title, r.Title)
	setValue(&n.Content, r.Content)
	setOptional(&n.Excerpt, r.Excerpt)
	setOptional(&n.ImageURL, r.ImageURL)
	setOptional(&n.Author, r.Author)
	setOptional(&n.Category, r.Category)
	// an empty list clears the tags, an absent one keeps them
	if r.Tags != nil {
		n.Tags = tagsOf(r.Tags)
	}
	setValue(&n.Status, r.Status)
}

func tagsOf(tags []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(tags))
	for _, t := range tags {
		out = append(out, strings.TrimSpace(t))
	}
	return out
}

// NewsDetailResponse is a published article with its markdown rendered to HTML
type NewsDetailResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	ContentHTML string     `json:"content_html"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Author      *string    `json:"author,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
