package models

import "time"

// Application lifecycle
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// ServiceApplication is a resident's request for a Service, submitted from the public site
// Table: service_applications
// ServiceID is a plain reference; deleting a Service leaves its applications in place
type ServiceApplication struct {
	ID            string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ServiceID     string    `gorm:"type:uuid;not null;index:idx_service_applications_service_id" json:"service_id"`
	ApplicantName string    `gorm:"size:255;not null" json:"applicant_name"`
	NIK           *string   `gorm:"column:nik;size:16" json:"nik,omitempty"`
	Phone         string    `gorm:"size:30;not null" json:"phone"`
	Email         *string   `gorm:"size:255" json:"email,omitempty"`
	Address       *string   `gorm:"type:text" json:"address,omitempty"`
	Notes         *string   `gorm:"type:text" json:"notes,omitempty"`
	AdminNotes    *string   `gorm:"type:text" json:"admin_notes,omitempty"`
	Status        string    `gorm:"size:20;not null;default:pending;index:idx_service_applications_status" json:"status"`
	SubmittedAt   time.Time `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_service_applications_submitted_at" json:"submitted_at"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (ServiceApplication) TableName() string {
	return "service_applications"
}

func (a ServiceApplication) GetID() string { return a.ID }

// IsPublic is false: applications carry personal data and are never listed publicly.
func (a ServiceApplication) IsPublic() bool { return false }
