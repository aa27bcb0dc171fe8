package models

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is against these to branch on the failure class.
var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrGeneration          = errors.New("generation error")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrConflict            = errors.New("conflict")
)

// AppError carries a kind, a caller facing message and an optional cause
type AppError struct {
	Kind     error
	Message  string
	Resource string
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: ErrValidation, Message: message}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Kind:     ErrNotFound,
		Resource: resource,
		Message:  fmt.Sprintf("%s %v not found", resource, id),
	}
}

// NewProfileNotFoundError is returned when a user has not completed the survey yet.
func NewProfileNotFoundError(userID int64) *AppError {
	return NewNotFoundError("profile", userID)
}

func NewGenerationError(message string) *AppError {
	return &AppError{Kind: ErrGeneration, Message: message}
}

func NewUpstreamError(service string, err error) *AppError {
	return &AppError{
		Kind:    ErrUpstreamUnavailable,
		Message: fmt.Sprintf("%s unavailable", service),
		Err:     err,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: ErrConflict, Message: message}
}

// IsProfileNotFound reports whether err means the user has no profile yet.
func IsProfileNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && errors.Is(appErr.Kind, ErrNotFound) && appErr.Resource == "profile"
}

// IsNotFound reports whether err is any kind of not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
