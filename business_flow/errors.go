// Package businessflow contains the core business logic and use cases of the village portal
package businessflow

import (
	"errors"
	"fmt"
	"strings"
)

// Business flow error constants
var (
	// Resource errors
	ErrValidationFailed = errors.New("validation failed")
	ErrStoreFailure     = errors.New("store operation failed")
	ErrRecordNotFound   = errors.New("record not found")

	// Upload errors
	ErrUploadFailed    = errors.New("upload failed")
	ErrFileRequired    = errors.New("file is required")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidImage    = errors.New("file is not a decodable image")

	// Application errors
	ErrServiceNotAvailable = errors.New("service is not available for applications")

	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// ValidationError reports blank or malformed input detected before any store call
type ValidationError struct {
	Resource string
	Fields   []FieldError
}

// FieldError describes one rejected field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("invalid %s: %s", e.Resource, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// StoreError reports a failure returned by the data store for a list, get or mutation
type StoreError struct {
	Resource string
	Op       string
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreFailure, e.Err}
}

// UploadError reports a rejected or failed object upload
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("upload: %v", e.Err)
	}
	return fmt.Sprintf("upload %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() []error {
	return []error{ErrUploadFailed, e.Err}
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

func IsStoreError(err error) bool {
	return errors.Is(err, ErrStoreFailure)
}

func IsUploadError(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

func IsRecordNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

func IsServiceNotAvailable(err error) bool {
	return errors.Is(err, ErrServiceNotAvailable)
}

// ValidationFields returns the rejected fields carried by err, if any
func ValidationFields(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
