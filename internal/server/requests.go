package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-studio/internal/assistant"
	"github.com/jonathan/resume-studio/internal/types"
)

const maxBodyBytes = 256 << 10

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ErrValidation{Field: verrs[0].Field(), Message: fmt.Sprintf("failed '%s' validation", verrs[0].Tag())}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// SessionResponse is returned when a session is created
type SessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
}

// SetTabRequest selects the active tab
type SetTabRequest struct {
	Tab string `json:"tab" validate:"required"`
}

// SetLanguageRequest selects the profile language
type SetLanguageRequest struct {
	Language string `json:"language" validate:"required,min=2,max=8"`
}

// DevModeRequest toggles the under-development flag of the active tab
type DevModeRequest struct {
	Code string `json:"code" validate:"required"`
}

// JobRequest starts a cover letter or skill gap job
type JobRequest struct {
	JobDescription string `json:"job_description"`
}

// ViewResponse is the visible state of a session
type ViewResponse struct {
	SessionID        string                 `json:"session_id"`
	Tab              types.Tab              `json:"tab"`
	Language         string                 `json:"language"`
	Languages        []string               `json:"languages"`
	Name             string                 `json:"name"`
	Headline         string                 `json:"headline"`
	Summary          string                 `json:"summary"`
	Skills           []types.Skill          `json:"skills"`
	Experiences      []types.WorkExperience `json:"experiences"`
	References       []types.Reference      `json:"references,omitempty"`
	Education        []types.Education      `json:"education,omitempty"`
	Sections         map[string]bool        `json:"sections"`
	AllCollapsed     bool                   `json:"all_collapsed"`
	UnderDevelopment bool                   `json:"under_development"`
	Exporting        bool                   `json:"exporting"`
}

// SectionResponse reports the flag of one section after a toggle
type SectionResponse struct {
	ID        string `json:"id"`
	Collapsed bool   `json:"collapsed"`
}

// ToggleAllResponse reports the visible flags after a toggle-all
type ToggleAllResponse struct {
	Collapsed bool            `json:"collapsed"`
	Sections  map[string]bool `json:"sections"`
}

// DevModeResponse reports the development flag of the active tab
type DevModeResponse struct {
	Tab              types.Tab `json:"tab"`
	UnderDevelopment bool      `json:"under_development"`
}

// ExportStatusResponse reports the export gate
type ExportStatusResponse struct {
	Exporting bool   `json:"exporting"`
	Phase     string `json:"phase"`
}

// AssistantResponse lists every job state
type AssistantResponse struct {
	Jobs []assistant.JobState `json:"jobs"`
}

func viewSections(collapsed func(string) bool, visible []string) map[string]bool {
	out := make(map[string]bool, len(visible))
	for _, id := range visible {
		out[id] = collapsed(id)
	}
	return out
}
