package models

import "time"

// CommunityProgram is a recurring village activity (posyandu, gotong royong)
// Table: community_programs
// Schedule is free text such as "Every Sunday 07:00"
type CommunityProgram struct {
	ID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Schedule    string  `gorm:"size:255;not null" json:"schedule"`
	Location    *string `gorm:"type:text" json:"location,omitempty"`
	Organizer   *string `gorm:"size:255" json:"organizer,omitempty"`
	ImageURL    *string `gorm:"type:text" json:"image_url,omitempty"`
	Status      string  `gorm:"size:20;not null;default:active" json:"status"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_community_programs_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (CommunityProgram) TableName() string {
	return "community_programs"
}

func (p CommunityProgram) GetID() string { return p.ID }

func (p CommunityProgram) IsPublic() bool { return p.Status == StatusActive }
