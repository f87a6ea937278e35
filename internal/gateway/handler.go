package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/logging"
	"github.com/jonathan/resume-studio/internal/metrics"
	"github.com/jonathan/resume-studio/internal/types"
)

const maxRequestBytes = 1 << 20

// Handler serves the gateway contract on top of an llm.Client.
type Handler struct {
	llm      llm.Client
	log      *logging.Logger
	metrics  *metrics.Recorder
	validate *validator.Validate
	tiers    map[types.GatewayAction]llm.ModelTier
}

// NewHandler creates a gateway backend handler.
func NewHandler(client llm.Client, log *logging.Logger, rec *metrics.Recorder) *Handler {
	return &Handler{
		llm:      client,
		log:      log,
		metrics:  rec,
		validate: validator.New(),
		tiers: map[types.GatewayAction]llm.ModelTier{
			types.ActionGenerateCoverLetter: llm.TierStandard,
			types.ActionAnalyzeSkillGap:     llm.TierStandard,
			types.ActionGenerateSummary:     llm.TierLite,
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.respond(w, http.StatusMethodNotAllowed, Response{Error: "method not allowed"})
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, Response{Error: "invalid request body"})
		return
	}
	result, err := h.Invoke(r.Context(), req.Action, req.Payload)
	if err != nil {
		var gwErr *Error
		if errors.As(err, &gwErr) && gwErr.StatusCode != 0 {
			h.respond(w, gwErr.StatusCode, Response{Error: gwErr.Message})
			return
		}
		h.respond(w, http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}
	h.respond(w, http.StatusOK, Response{Result: result})
}

// Invoke runs one action against the model in-process. Failures are *Error
// values carrying the status the HTTP backend would answer with.
func (h *Handler) Invoke(ctx context.Context, action types.GatewayAction, payload Payload) (string, error) {
	if !types.ValidAction(action) {
		return "", &Error{StatusCode: http.StatusBadRequest, Message: fmt.Sprintf("unknown action: %q", action)}
	}
	if err := h.validate.Struct(payload); err != nil {
		return "", &Error{StatusCode: http.StatusBadRequest, Message: "payload.prompt is required", Cause: err}
	}

	start := time.Now()
	result, err := h.llm.Generate(ctx, llm.Request{
		Prompt:            payload.Prompt,
		SystemInstruction: payload.SystemInstruction,
		ResponseSchema:    payload.ResponseSchema,
		Tier:              h.tiers[action],
	})
	h.metrics.ObserveGateway("backend:"+string(action), err == nil, time.Since(start))
	if err != nil {
		h.log.Error("llm generation failed", "action", action, "error", err)
		return "", &Error{
			StatusCode: http.StatusBadGateway,
			Message:    "The assistant is unavailable right now. Please try again later.",
			Cause:      err,
		}
	}

	h.log.Info("gateway action completed", "action", action, "duration", time.Since(start))
	return result, nil
}

func (h *Handler) respond(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Warn("failed to encode gateway response", "error", err)
	}
}
