// Package server provides the HTTP API of the résumé studio.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-studio/internal/assistant"
	"github.com/jonathan/resume-studio/internal/content"
	"github.com/jonathan/resume-studio/internal/export"
)

// ErrSessionNotFound indicates the token names a session that expired or never existed
type ErrSessionNotFound struct {
	SessionID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// ErrInvalidDevCode indicates a wrong or unconfigured developer code
type ErrInvalidDevCode struct{}

func (e *ErrInvalidDevCode) Error() string {
	return "invalid developer code"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound *ErrSessionNotFound
		devCode  *ErrInvalidDevCode
		invalid  *ErrValidation
		loadErr  *content.LoadError
		capErr   *export.CaptureError
		rendErr  *export.RenderError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusUnauthorized
	case errors.As(err, &devCode):
		return http.StatusForbidden
	case errors.As(err, &invalid), errors.As(err, &loadErr),
		errors.Is(err, assistant.ErrEmptyJobDescription), errors.Is(err, assistant.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, assistant.ErrJobPending), errors.Is(err, export.ErrExportInProgress),
		errors.Is(err, assistant.ErrAnalysisRequired):
		return http.StatusConflict
	case errors.Is(err, assistant.ErrNothingToDownload):
		return http.StatusNotFound
	case errors.As(err, &capErr), errors.As(err, &rendErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
