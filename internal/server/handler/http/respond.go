// Package http provides the HTTP handlers and router for the camera
// surveillance API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/camwarden/camwarden/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeFieldError(w http.ResponseWriter, status int, fe *service.FieldError) {
	writeJSON(w, status, map[string]string{"error": fe.Message, "field": fe.Field})
}

// writeServiceError maps the service error taxonomy to a response:
// field errors and validation errors are 400, missing cameras are 404,
// upstream stream failures are 500 carrying the worker's message, and
// anything else is a generic 500 so server internals never leak.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var fieldErr *service.FieldError
	if errors.As(err, &fieldErr) {
		writeFieldError(w, http.StatusBadRequest, fieldErr)
		return
	}

	var valErr *service.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Validation Error",
			"details": valErr.Details,
		})
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Camera not found")
		return
	}

	if errors.Is(err, service.ErrStreamStart) || errors.Is(err, service.ErrStreamStop) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeError(w, http.StatusInternalServerError, fallback)
}
