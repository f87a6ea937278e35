package assistant

import "github.com/jonathan/resume-studio/internal/types"

// Status is the lifecycle position of one job.
type Status string

// Job statuses
const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// JobState is the observable state of one job kind.
// Text is set for successful cover letters and summaries, Analysis for a
// successful skill gap, Error only in StatusError.
type JobState struct {
	Kind     types.JobKind         `json:"kind"`
	Status   Status                `json:"status"`
	Text     string                `json:"text,omitempty"`
	Analysis *types.SkillGapResult `json:"analysis,omitempty"`
	Error    string                `json:"error,omitempty"`
}

func idle(kind types.JobKind) JobState {
	return JobState{Kind: kind, Status: StatusIdle}
}
