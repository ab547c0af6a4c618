package models

import (
	"time"

	"github.com/lib/pq"
)

// Facility is a public facility in the village (hall, clinic, field)
// Table: facilities
// Gallery stored as TEXT[] of public image URLs
type Facility struct {
	ID          string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	Category    *string        `gorm:"size:100" json:"category,omitempty"`
	Location    *string        `gorm:"type:text" json:"location,omitempty"`
	ImageURL    *string        `gorm:"type:text" json:"image_url,omitempty"`
	Gallery     pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"gallery"`
	Status      string         `gorm:"size:20;not null;default:active" json:"status"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_facilities_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Facility) TableName() string {
	return "facilities"
}

func (f Facility) GetID() string { return f.ID }

func (f Facility) IsPublic() bool { return f.Status == StatusActive }
