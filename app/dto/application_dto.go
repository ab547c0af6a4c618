package dto

import (
	"strings"

	"github.com/amirphl/desa-ngasem/models"
)

// SubmitApplicationRequest is sent by a resident from the public site
// Status and admin notes are not accepted here
type SubmitApplicationRequest struct {
	ServiceID     string  `json:"service_id" validate:"required,uuid"`
	ApplicantName string  `json:"applicant_name" validate:"required,notblank,max=255"`
	NIK           *string `json:"nik,omitempty" validate:"omitnil,omitempty,len=16,numeric"`
	Phone         string  `json:"phone" validate:"required,notblank,max=30"`
	Email         *string `json:"email,omitempty" validate:"omitnil,omitempty,email"`
	Address       *string `json:"address,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// ToCreateRequest converts a public submission into an admin create request in pending state
func (r *SubmitApplicationRequest) ToCreateRequest() *CreateServiceApplicationRequest {
	return &CreateServiceApplicationRequest{
		ServiceID:     r.ServiceID,
		ApplicantName: r.ApplicantName,
		NIK:           r.NIK,
		Phone:         r.Phone,
		Email:         r.Email,
		Address:       r.Address,
		Notes:         r.Notes,
		Status:        models.ApplicationStatusPending,
	}
}

// CreateServiceApplicationRequest represents the payload to record an application
type CreateServiceApplicationRequest struct {
	ServiceID     string  `json:"service_id" validate:"required,notblank,uuid"`
	ApplicantName string  `json:"applicant_name" validate:"required,notblank,max=255"`
	NIK           *string `json:"nik,omitempty" validate:"omitnil,omitempty,len=16,numeric"`
	Phone         string  `json:"phone" validate:"required,notblank,max=30"`
	Email         *string `json:"email,omitempty" validate:"omitnil,omitempty,email"`
	Address       *string `json:"address,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	AdminNotes    *string `json:"admin_notes,omitempty"`
	Status        string  `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
}

func (r *CreateServiceApplicationRequest) ToModel() models.ServiceApplication {
	return models.ServiceApplication{
		ServiceID:     strings.TrimSpace(r.ServiceID),
		ApplicantName: strings.TrimSpace(r.ApplicantName),
		NIK:           r.NIK,
		Phone:         strings.TrimSpace(r.Phone),
		Email:         r.Email,
		Address:       r.Address,
		Notes:         r.Notes,
		AdminNotes:    r.AdminNotes,
		Status:        defaultStatus(r.Status, models.ApplicationStatusPending),
	}
}

// UpdateServiceApplicationRequest is used by admins to process an application
type UpdateServiceApplicationRequest struct {
	ApplicantName *string `json:"applicant_name,omitempty" validate:"omitnil,notblank,max=255"`
	NIK           *string `json:"nik,omitempty" validate:"omitnil,omitempty,len=16,numeric"`
	Phone         *string `json:"phone,omitempty" validate:"omitnil,notblank,max=30"`
	Email         *string `json:"email,omitempty" validate:"omitnil,omitempty,email"`
	Address       *string `json:"address,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	AdminNotes    *string `json:"admin_notes,omitempty"`
	Status        *string `json:"status,omitempty" validate:"omitnil,oneof=pending approved rejected"`
}

func (r *UpdateServiceApplicationRequest) Apply(a *models.ServiceApplication) {
	setTrimmed(&a.ApplicantName, r.ApplicantName)
	setOptional(&a.NIK, r.NIK)
	setTrimmed(&a.Phone, r.Phone)
	setOptional(&a.Email, r.Email)
	setOptional(&a.Address, r.Address)
	setOptional(&a.Notes, r.Notes)
	setOptional(&a.AdminNotes, r.AdminNotes)
	setValue(&a.Status, r.Status)
}
