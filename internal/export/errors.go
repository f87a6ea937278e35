// Package export turns the rendered résumé into a downloadable document.
package export

import (
	"errors"
	"fmt"
)

// ErrExportInProgress is returned when an export is requested while one is running.
var ErrExportInProgress = errors.New("export already in progress")

// CaptureError represents a failure to locate or read the content region
type CaptureError struct {
	Message string
	Cause   error
}

func (e *CaptureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("capture error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("capture error: %s", e.Message)
}

func (e *CaptureError) Unwrap() error {
	return e.Cause
}

// RenderError represents a document renderer failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
