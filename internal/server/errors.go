// Package server provides the HTTP REST API for the ATS match engine.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrSessionNotFound indicates an unknown or expired session id.
type ErrSessionNotFound struct {
	SessionID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// ErrNoAnalysis indicates the session has no active analysis yet.
type ErrNoAnalysis struct{}

func (e *ErrNoAnalysis) Error() string {
	return "no analysis available; analyze a job description first"
}

// ErrNoSnapshot indicates the session has no CV loaded.
type ErrNoSnapshot struct{}

func (e *ErrNoSnapshot) Error() string {
	return "no CV snapshot loaded for this session"
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrSessionNotFound:
		return http.StatusNotFound
	case *ErrNoAnalysis, *ErrNoSnapshot:
		return http.StatusConflict
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
