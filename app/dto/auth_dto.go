package dto

import "time"

// AdminLoginRequest carries the admin credential pair
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminSessionResponse describes the caller's session
type AdminSessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	State         string     `json:"state"`
	LoginAt       *time.Time `json:"login_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}
