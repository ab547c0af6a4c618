package models

import "time"

// KKN program lifecycle
const (
	KKNStatusActive    = "active"
	KKNStatusCompleted = "completed"
)

// KKNProgram is a university community service (Kuliah Kerja Nyata) program hosted by the village
// Table: kkn_programs
// Tanggal is the program period date; ordered by tanggal DESC
type KKNProgram struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	University  *string   `gorm:"size:255" json:"university,omitempty"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Tanggal     time.Time `gorm:"type:date;not null;index:idx_kkn_programs_tanggal" json:"tanggal"`
	Period      *string   `gorm:"size:100" json:"period,omitempty"`
	ImageURL    *string   `gorm:"type:text" json:"image_url,omitempty"`
	Status      string    `gorm:"size:20;not null;default:active" json:"status"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (KKNProgram) TableName() string {
	return "kkn_programs"
}

func (k KKNProgram) GetID() string { return k.ID }

// IsPublic is always true: both running and completed programs are shown.
func (k KKNProgram) IsPublic() bool { return true }
