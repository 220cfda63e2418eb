package handler

// RESPONSE HELPERS:
// Every endpoint answers with JSON. Errors always have the same shape:
//
//	{"error": "not_found", "message": "user goal not found with id abc123"}
//
// so a caller can show the message inline without caring which endpoint
// failed.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/food-journal/internal/apperror"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`             // machine-readable kind, e.g. "validation_error"
	Message string `json:"message,omitempty"` // human-readable, safe to display
	Field   string `json:"field,omitempty"`   // offending input field for validation errors
}

// writeJSON sets the content type and status, then encodes data.
// Headers cannot change once the body has started, hence the order.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error onto an HTTP status.
//
//	ErrValidation          400
//	ErrNotFound            404
//	ErrConflict            409
//	ErrSearch              502  (checked first: it may wrap a token error)
//	ErrTokenAcquisition    502
//	ErrMissingCredentials  500
//	ErrStorageUnavailable  503
//	ErrWrite, ErrRead      500
//
// Anything that is not an *apperror.AppError becomes a generic 500 without
// its internal text.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	status := http.StatusInternalServerError
	errorType := "internal_error"

	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
		errorType = "validation_error"
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
		errorType = "not_found"
	case errors.Is(err, apperror.ErrConflict):
		status = http.StatusConflict
		errorType = "conflict"
	case errors.Is(err, apperror.ErrSearch):
		status = http.StatusBadGateway
		errorType = "search_error"
	case errors.Is(err, apperror.ErrTokenAcquisition):
		status = http.StatusBadGateway
		errorType = "token_error"
	case errors.Is(err, apperror.ErrMissingCredentials):
		errorType = "missing_credentials"
	case errors.Is(err, apperror.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
		errorType = "storage_unavailable"
	case errors.Is(err, apperror.ErrWrite):
		errorType = "write_error"
	case errors.Is(err, apperror.ErrRead):
		errorType = "read_error"
	}

	writeJSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: appErr.Message,
		Field:   appErr.Field,
	})
}

// decodeJSON reads a single JSON value from the request body into dst.
// Malformed bodies are reported as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return nil
}
