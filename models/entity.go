// Package models contains the records managed by the village portal
package models

// Lifecycle values shared by most entity types
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Entity is implemented by every managed record
type Entity interface {
	TableName() string
	GetID() string
	// IsPublic reports whether the record may be shown on the public site
	IsPublic() bool
}
