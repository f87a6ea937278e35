// Package gateway implements the assistant gateway HTTP contract: a client used
// by the assistant jobs and the backend handler that forwards to the LLM.
package gateway

import (
	"fmt"

	"github.com/jonathan/resume-studio/internal/types"
)

// Payload is the action-independent body of a gateway request.
type Payload struct {
	Prompt            string         `json:"prompt" validate:"required"`
	SystemInstruction string         `json:"systemInstruction"`
	ResponseSchema    map[string]any `json:"responseSchema,omitempty"`
}

// Request is the gateway request envelope.
type Request struct {
	Action  types.GatewayAction `json:"action"`
	Payload Payload             `json:"payload"`
}

// Response is the gateway response envelope. Exactly one field is set.
type Response struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Error is returned by Client.Invoke for every failed call.
// Message is human-readable and safe to show to the visitor.
type Error struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func statusError(code int) *Error {
	return &Error{StatusCode: code, Message: fmt.Sprintf("Request failed with status %d", code)}
}
