package models

import "time"

// Statistic is a headline figure on the village profile (population, area, households)
// Table: statistics
type Statistic struct {
	ID         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Label      string  `gorm:"size:255;not null" json:"label"`
	Value      string  `gorm:"size:100;not null" json:"value"`
	Unit       *string `gorm:"size:50" json:"unit,omitempty"`
	Icon       *string `gorm:"size:100" json:"icon,omitempty"`
	Category   *string `gorm:"size:100" json:"category,omitempty"`
	OrderIndex int     `gorm:"not null;default:0;index:idx_statistics_order_index" json:"order_index"`
	Status     string  `gorm:"size:20;not null;default:active" json:"status"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Statistic) TableName() string {
	return "statistics"
}

func (s Statistic) GetID() string { return s.ID }

func (s Statistic) IsPublic() bool { return s.Status == StatusActive }
