package models

import (
	"time"

	"github.com/lib/pq"
)

// News lifecycle
const (
	NewsStatusDraft     = "draft"
	NewsStatusPublished = "published"
)

// NewsArticle is a village news post. Content is markdown.
// Table: news
// Tags stored as TEXT[]
type NewsArticle struct {
	ID          string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Excerpt     *string        `gorm:"type:text" json:"excerpt,omitempty"`
	ImageURL    *string        `gorm:"type:text" json:"image_url,omitempty"`
	Author      *string        `gorm:"size:255" json:"author,omitempty"`
	Category    *string        `gorm:"size:100" json:"category,omitempty"`
	Tags        pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"tags"`
	Status      string         `gorm:"size:20;not null;default:draft;index:idx_news_status" json:"status"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_news_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (NewsArticle) TableName() string {
	return "news"
}

func (n NewsArticle) GetID() string { return n.ID }

func (n NewsArticle) IsPublic() bool { return n.Status == NewsStatusPublished }
