// Package service provides business logic for authentication, camera
// management, stream control, and alerts, delegating persistence to
// repository interfaces.
package service

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound reports that a referenced camera is absent or not owned
	// by the requester. The two cases are indistinguishable on purpose.
	ErrNotFound = errors.New("camera not found")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password; callers must not be able to tell them apart.
	ErrInvalidCredentials = errors.New("Invalid username or password")

	// ErrStreamStart reports that the worker rejected or failed a stream
	// start. The camera's enabled flag is left untouched.
	ErrStreamStart = errors.New("failed to start stream")

	// ErrStreamStop reports that the worker rejected or failed a stream
	// stop. The camera's enabled flag is left untouched.
	ErrStreamStop = errors.New("failed to stop stream")
)

// FieldError is a user-correctable input error tied to a single field.
type FieldError struct {
	// Field names the offending input field.
	Field string
	// Message is the user-facing description.
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// ValidationError carries every violated constraint of a request body,
// not just the first.
type ValidationError struct {
	// Details holds one message per violated field constraint.
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Details, "; ")
}
