package models

import "time"

// Achievement is an award or recognition received by the village
// Table: achievements
type Achievement struct {
	ID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Year        *int    `json:"year,omitempty"`
	Category    *string `gorm:"size:100" json:"category,omitempty"`
	ImageURL    *string `gorm:"type:text" json:"image_url,omitempty"`
	OrderIndex  int     `gorm:"not null;default:0;index:idx_achievements_order_index" json:"order_index"`
	Status      string  `gorm:"size:20;not null;default:active" json:"status"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Achievement) TableName() string {
	return "achievements"
}

func (a Achievement) GetID() string { return a.ID }

func (a Achievement) IsPublic() bool { return a.Status == StatusActive }
