package dto

import (
	"strings"

	"github.com/amirphl/desa-ngasem/models"
	"github.com/amirphl/desa-ngasem/utils"
	"github.com/lib/pq"
)

// CreateFacilityRequest represents the payload to add a public facility
type CreateFacilityRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=255"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitnil,max=100"`
	Location    *string  `json:"location,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Gallery     []string `json:"gallery,omitempty" validate:"omitempty,dive,notblank"`
	Status      string   `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (r *CreateFacilityRequest) ToModel() models.Facility {
	gallery := make(pq.StringArray, 0, len(r.Gallery))
	gallery = append(gallery, r.Gallery...)
	return models.Facility{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Category:    r.Category,
		Location:    r.Location,
		ImageURL:    r.ImageURL,
		Gallery:     gallery,
		Status:      defaultStatus(r.Status, models.StatusActive),
	}
}

// UpdateFacilityRequest represents a partial update of a facility
type UpdateFacilityRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitnil,notblank,max=255"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitnil,max=100"`
	Location    *string  `json:"location,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Gallery     []string `json:"gallery,omitempty" validate:"omitempty,dive,notblank"`
	Status      *string  `json:"status,omitempty" validate:"omitnil,oneof=active inactive"`
}

func (r *UpdateFacilityRequest) Apply(f *models.Facility) {
	setTrimmed(&f.Name, r.Name)
	setOptional(&f.Description, r.Description)
	setOptional(&f.Category, r.Category)
	setOptional(&f.Location, r.Location)
	setOptional(&f.ImageURL, r.ImageURL)
	if r.Gallery != nil {
		f.Gallery = append(make(pq.StringArray, 0, len(r.Gallery)), r.Gallery...)
	}
	setValue(&f.Status, r.Status)
}

// CreateCommunityProgramRequest represents the payload to add a community program
type CreateCommunityProgramRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description *string `json:"description,omitempty"`
	Schedule    string  `json:"schedule" validate:"required,notblank,max=255"`
	Location    *string `json:"location,omitempty"`
	Organizer   *string `json:"organizer,omitempty" validate:"omitnil,max=255"`
	ImageURL    *string `json:"image_url,omitempty"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (r *CreateCommunityProgramRequest) ToModel() models.CommunityProgram {
	return models.CommunityProgram{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Schedule:    strings.TrimSpace(r.Schedule),
		Location:    r.Location,
		Organizer:   r.Organizer,
		ImageURL:    r.ImageURL,
		Status:      defaultStatus(r.Status, models.StatusActive),
	}
}

// UpdateCommunityProgramRequest represents a partial update of a community program
type UpdateCommunityProgramRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitnil,notblank,max=255"`
	Description *string `json:"description,omitempty"`
	Schedule    *string `json:"schedule,omitempty" validate:"omitnil,notblank,max=255"`
	Location    *string `json:"location,omitempty"`
	Organizer   *string `json:"organizer,omitempty" validate:"omitnil,max=255"`
	ImageURL    *string `json:"image_url,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitnil,oneof=active inactive"`
}

func (r *UpdateCommunityProgramRequest) Apply(p *models.CommunityProgram) {
	setTrimmed(&p.Name, r.Name)
	setOptional(&p.Description, r.Description)
	setTrimmed(&p.Schedule, r.Schedule)
	setOptional(&p.Location, r.Location)
	setOptional(&p.Organizer, r.Organizer)
	setOptional(&p.ImageURL, r.ImageURL)
	setValue(&p.Status, r.Status)
}

// CreateKKNProgramRequest represents the payload to add a KKN program
// Tanggal is a yyyy-mm-dd date
type CreateKKNProgramRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=255"`
	University  *string `json:"university,omitempty" validate:"omitnil,max=255"`
	Description *string `json:"description,omitempty"`
	Tanggal     string  `json:"tanggal" validate:"required,datetime=2006-01-02"`
	Period      *string `json:"period,omitempty" validate:"omitnil,max=100"`
	ImageURL    *string `json:"image_url,omitempty"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=active completed"`
}

func (r *CreateKKNProgramRequest) ToModel() models.KKNProgram {
	tanggal, _ := utils.ParseDate(r.Tanggal)
	return models.KKNProgram{
		Title:       strings.TrimSpace(r.Title),
		University:  r.University,
		Description: r.Description,
		Tanggal:     tanggal,
		Period:      r.Period,
		ImageURL:    r.ImageURL,
		Status:      defaultStatus(r.Status, models.KKNStatusActive),
	}
}

// UpdateKKNProgramRequest represents a partial update of a KKN program
type UpdateKKNProgramRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitnil,notblank,max=255"`
	University  *string `json:"university,omitempty" validate:"omitnil,max=255"`
	Description *string `json:"description,omitempty"`
	Tanggal     *string `json:"tanggal,omitempty" validate:"omitnil,datetime=2006-01-02"`
	Period      *string `json:"period,omitempty" validate:"omitnil,max=100"`
	ImageURL    *string `json:"image_url,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitnil,oneof=active completed"`
}

func (r *UpdateKKNProgramRequest) Apply(k *models.KKNProgram) {
	setTrimmed(&k.Title, r.Title)
	setOptional(&k.University, r.University)
	setOptional(&k.Description, r.Description)
	if r.Tanggal != nil {
		if tanggal, err := utils.ParseDate(*r.Tanggal); err == nil {
			k.Tanggal = tanggal
		}
	}
	setOptional(&k.Period, r.Period)
	setOptional(&k.ImageURL, r.ImageURL)
	setValue(&k.Status, r.Status)
}
