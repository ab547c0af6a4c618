package models

import "time"

// VillageOfficial is a member of the village apparatus shown on the profile page
// Table: village_officials
// Ordered by order_index ASC
type VillageOfficial struct {
	ID         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name       string  `gorm:"size:255;not null" json:"name"`
	Position   string  `gorm:"size:255;not null" json:"position"`
	PhotoURL   *string `gorm:"type:text" json:"photo_url,omitempty"`
	Phone      *string `gorm:"size:30" json:"phone,omitempty"`
	Email      *string `gorm:"size:255" json:"email,omitempty"`
	OrderIndex int     `gorm:"not null;default:0;index:idx_village_officials_order_index" json:"order_index"`
	Status     string  `gorm:"size:20;not null;default:active" json:"status"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (VillageOfficial) TableName() string {
	return "village_officials"
}

func (o VillageOfficial) GetID() string { return o.ID }

func (o VillageOfficial) IsPublic() bool { return o.Status == StatusActive }
