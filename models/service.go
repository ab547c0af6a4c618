package models

import "time"

// Service is an administrative service offered at the village office (letters, permits)
// Table: services
// Ordered by created_at DESC
type Service struct {
	ID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string  `gorm:"size:255;not null" json:"name"`
	Description  *string `gorm:"type:text" json:"description,omitempty"`
	Requirements *string `gorm:"type:text" json:"requirements,omitempty"`
	ProcessTime  *string `gorm:"size:100" json:"process_time,omitempty"`
	Cost         *string `gorm:"size:100" json:"cost,omitempty"`
	Icon         *string `gorm:"size:100" json:"icon,omitempty"`
	Status       string  `gorm:"size:20;not null;default:active;index:idx_services_status" json:"status"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_services_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

func (s Service) GetID() string { return s.ID }

func (s Service) IsPublic() bool { return s.Status == StatusActive }
