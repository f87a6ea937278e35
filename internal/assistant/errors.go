// Package assistant runs the cover letter, skill gap and summary jobs against the gateway.
package assistant

import (
	"errors"
	"fmt"
)

// Guard errors. A job that fails a guard is not started and no state changes.
var (
	ErrEmptyJobDescription = errors.New("job description is empty")
	ErrJobPending          = errors.New("job is already running")
	ErrAnalysisRequired    = errors.New("a successful skill gap analysis is required")
)

// ParseError represents a structured response that could not be parsed or validated
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
