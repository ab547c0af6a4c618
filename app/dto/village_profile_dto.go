package dto

import (
	"strings"

	"github.com/amirphl/desa-ngasem/models"
)

// CreateVillageOfficialRequest represents the payload to add a village official
type CreateVillageOfficialRequest struct {
	Name       string  `json:"name" validate:"required,notblank,max=255"`
	Position   string  `json:"position" validate:"required,notblank,max=255"`
	PhotoURL   *string `json:"photo_url,omitempty"`
	Phone      *string `json:"phone,omitempty" validate:"omitnil,max=30"`
	Email      *string `json:"email,omitempty" validate:"omitnil,omitempty,email"`
	OrderIndex int     `json:"order_index" validate:"gte=0"`
	Status     string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (r *CreateVillageOfficialRequest) ToModel() models.VillageOfficial {
	return models.VillageOfficial{
		Name:       strings.TrimSpace(r.Name),
		Position:   strings.TrimSpace(r.Position),
		PhotoURL:   r.PhotoURL,
		Phone:      r.Phone,
		Email:      r.Email,
		OrderIndex: r.OrderIndex,
		Status:     defaultStatus(r.Status, models.StatusActive),
	}
}

// UpdateVillageOfficialRequest represents a partial update of a village official
type UpdateVillageOfficialRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitnil,notblank,max=255"`
	Position   *string `json:"position,omitempty" validate:"omitnil,notblank,max=255"`
	PhotoURL   *string `json:"photo_url,omitempty"`
	Phone      *string `json:"phone,omitempty" validate:"omitnil,max=30"`
	Email      *string `json:"email,omitempty" validate:"omitnil,omitempty,email"`
	OrderIndex *int    `json:"order_index,omitempty" validate:"omitnil,gte=0"`
	Status     *string `json:"status,omitempty" validate:"omitnil,oneof=active inactive"`
}

func (r *UpdateVillageOfficialRequest) Apply(o *models.VillageOfficial) {
	setTrimmed(&o.Name, r.Name)
	setTrimmed(&o.Position, r.Position)
	setOptional(&o.PhotoURL, r.PhotoURL)
	setOptional(&o.Phone, r.Phone)
	setOptional(&o.Email, r.Email)
	setValue(&o.OrderIndex, r.OrderIndex)
	setValue(&o.Status, r.Status)
}

// CreateStatisticRequest represents the payload to add a headline figure
type CreateStatisticRequest struct {
	Label      string  `json:"label" validate:"required,notblank,max=255"`
	Value      string  `json:"value" validate:"required,notblank,max=100"`
	Unit       *string `json:"unit,omitempty" validate:"omitnil,max=50"`
	Icon       *string `json:"icon,omitempty" validate:"omitnil,max=100"`
	Category   *string `json:"category,omitempty" validate:"omitnil,max=100"`
	OrderIndex int     `json:"order_index" validate:"gte=0"`
	Status     string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (r *CreateStatisticRequest) ToModel() models.Statistic {
	return models.Statistic{
		Label:      strings.TrimSpace(r.Label),
		Value:      strings.TrimSpace(r.Value),
		Unit:       r.Unit,
		Icon:       r.Icon,
		Category:   r.Category,
		OrderIndex: r.OrderIndex,
		Status:     defaultStatus(r.Status, models.StatusActive),
	}
}

// UpdateStatisticRequest represents a partial update of a statistic
type UpdateStatisticRequest struct {
	Label      *string `json:"label,omitempty" validate:"omitnil,notblank,max=255"`
	Value      *string `json:"value,omitempty" validate:"omitnil,notblank,max=100"`
	Unit       *string `json:"unit,omitempty" validate:"omitnil,max=50"`
	Icon       *string `json:"icon,omitempty" validate:"omitnil,max=100"`
	Category   *string `json:"category,omitempty" validate:"omitnil,max=100"`
	OrderIndex *int    `json:"order_index,omitempty" validate:"omitnil,gte=0"`
	Status     *string `json:"status,omitempty" validate:"omitnil,oneof=active inactive"`
}

func (r *UpdateStatisticRequest) Apply(s *models.Statistic) {
	setTrimmed(&s.Label, r.Label)
	setTrimmed(&s.Value, r.Value)
	setOptional(&s.Unit, r.Unit)
	setOptional(&s.Icon, r.Icon)
	setOptional(&s.Category, r.Category)
	setValue(&s.OrderIndex, r.OrderIndex)
	setValue(&s.Status, r.Status)
}

// CreateAchievementRequest represents the payload to add an achievement
type CreateAchievementRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=255"`
	Description *string `json:"description,omitempty"`
	Year        *int    `json:"year,omitempty" validate:"omitnil,gte=1900,lte=2100"`
	Category    *string `json:"category,omitempty" validate:"omitnil,max=100"`
	ImageURL    *string `json:"image_url,omitempty"`
	OrderIndex  int     `json:"order_index" validate:"gte=0"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (r *CreateAchievementRequest) ToModel() models.Achievement {
	return models.Achievement{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Year:        r.Year,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		OrderIndex:  r.OrderIndex,
		Status:      defaultStatus(r.Status, models.StatusActive),
	}
}

// UpdateAchievementRequest represents a partial update of an achievement
type UpdateAchievementRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitnil,notblank,max=255"`
	Description *string `json:"description,omitempty"`
	Year        *int    `json:"year,omitempty" validate:"omitnil,gte=1900,lte=2100"`
	Category    *string `json:"category,omitempty" validate:"omitnil,max=100"`
	ImageURL    *string `json:"image_url,omitempty"`
	OrderIndex  *int    `json:"order_index,omitempty" validate:"omitnil,gte=0"`
	Status      *string `json:"status,omitempty" validate:"omitnil,oneof=active inactive"`
}

func (r *UpdateAchievementRequest) Apply(a *models.Achievement) {
	setTrimmed(&a.Title, r.Title)
	setOptional(&a.Description, r.Description)
	if r.Year != nil {
		year := *r.Year
		a.Year = &year
	}
	setOptional(&a.Category, r.Category)
	setOptional(&a.ImageURL, r.ImageURL)
	setValue(&a.OrderIndex, r.OrderIndex)
	setValue(&a.Status, r.Status)
}
