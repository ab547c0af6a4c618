// Package dto contains Data Transfer Objects for API request and response structures
package dto

import (
	"strings"

	"github.com/amirphl/desa-ngasem/models"
)

// CreateServiceRequest represents the payload to create a village service
type CreateServiceRequest struct {
	Name         string  `json:"name" validate:"required,notblank,max=255"`
	Description  *string `json:"description,omitempty"`
	Requirements *string `json:"requirements,omitempty"`
	ProcessTime  *string `json:"process_time,omitempty" validate:"omitnil,max=100"`
	Cost         *string `json:"cost,omitempty" validate:"omitnil,max=100"`
	Icon         *string `json:"icon,omitempty" validate:"omitnil,max=100"`
	Status       string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (r *CreateServiceRequest) ToModel() models.Service {
	return models.Service{
		Name:         strings.TrimSpace(r.Name),
		Description:  r.Description,
		Requirements: r.Requirements,
		ProcessTime:  r.ProcessTime,
		Cost:         r.Cost,
		Icon:         r.Icon,
		Status:       defaultStatus(r.Status, models.StatusActive),
	}
}

// UpdateServiceRequest represents a partial update; absent fields are left unchanged
type UpdateServiceRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitnil,notblank,max=255"`
	Description  *string `json:"description,omitempty"`
	Requirements *string `json:"requirements,omitempty"`
	ProcessTime  *string `json:"process_time,omitempty" validate:"omitnil,max=100"`
	Cost         *string `json:"cost,omitempty" validate:"omitnil,max=100"`
	Icon         *string `json:"icon,omitempty" validate:"omitnil,max=100"`
	Status       *string `json:"status,omitempty" validate:"omitnil,oneof=active inactive"`
}

func (r *UpdateServiceRequest) Apply(s *models.Service) {
	setTrimmed(&s.Name, r.Name)
	setOptional(&s.Description, r.Description)
	setOptional(&s.Requirements, r.Requirements)
	setOptional(&s.ProcessTime, r.ProcessTime)
	setOptional(&s.Cost, r.Cost)
	setOptional(&s.Icon, r.Icon)
	setValue(&s.Status, r.Status)
}
