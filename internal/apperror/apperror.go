// Package apperror defines the error taxonomy shared by every layer of the
// journal. Repositories and services return these; handlers and the CLI
// translate them into user-visible messages.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrWrite              = errors.New("write error")
	ErrRead               = errors.New("read error")
	ErrSearch             = errors.New("search request error")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrTokenAcquisition   = errors.New("token acquisition error")
)

// AppError pairs a sentinel with a message that is safe to show the user.
type AppError struct {
	Err     error  // sentinel, matched with errors.Is
	Message string // human-readable message, safe to show to the user
	Field   string // optional: field causing the error
	Cause   error  // optional: underlying driver or transport error
}

// Error includes the cause; show Message to users instead.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the underlying cause, so errors.Is
// matches either one.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// NotFound reports that no resource exists with the given id.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports invalid input for field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a write that clashes with existing data.
func Conflict(resource, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict: %s", resource, message),
	}
}

// StorageUnavailable reports that the local store could not be opened at all.
// It is fatal to every store operation and is surfaced at startup.
func StorageUnavailable(cause error) *AppError {
	return &AppError{
		Err:     ErrStorageUnavailable,
		Message: "local storage is unavailable",
		Cause:   cause,
	}
}

// WriteFailed reports a store write that did not complete.
func WriteFailed(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrWrite,
		Message: fmt.Sprintf("failed to %s", op),
		Cause:   cause,
	}
}

// ReadFailed reports a store read that did not complete.
func ReadFailed(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrRead,
		Message: fmt.Sprintf("failed to %s", op),
		Cause:   cause,
	}
}

// SearchFailed reports any failure of a provider search.
func SearchFailed(cause error) *AppError {
	return &AppError{
		Err:     ErrSearch,
		Message: "food search failed",
		Cause:   cause,
	}
}

// MissingCredentials reports that provider credentials are not configured.
func MissingCredentials(message string) *AppError {
	return &AppError{
		Err:     ErrMissingCredentials,
		Message: message,
	}
}

// TokenAcquisitionFailed reports that the provider refused or could not issue a token.
func TokenAcquisitionFailed(cause error) *AppError {
	return &AppError{
		Err:     ErrTokenAcquisition,
		Message: "failed to obtain access token",
		Cause:   cause,
	}
}
