package types

import "fmt"

// JobKind identifies one of the three assistant jobs.
type JobKind string

// JobKind constants
const (
	JobCoverLetter JobKind = "cover-letter"
	JobSkillGap    JobKind = "skill-gap"
	JobSummary     JobKind = "summary"
)

// AllJobKinds returns the job kinds in display order.
func AllJobKinds() []JobKind {
	return []JobKind{JobCoverLetter, JobSkillGap, JobSummary}
}

// ParseJobKind converts a string into a known JobKind.
func ParseJobKind(s string) (JobKind, error) {
	for _, kind := range AllJobKinds() {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown job kind: %q", s)
}

// GatewayAction is the action name sent to the assistant gateway.
type GatewayAction string

// Gateway actions, one per job kind
const (
	ActionGenerateCoverLetter GatewayAction = "generateCoverLetter"
	ActionAnalyzeSkillGap     GatewayAction = "analyzeSkillGap"
	ActionGenerateSummary     GatewayAction = "generateSummary"
)

// Action returns the gateway action for the job kind.
func (k JobKind) Action() GatewayAction {
	switch k {
	case JobSkillGap:
		return ActionAnalyzeSkillGap
	case JobSummary:
		return ActionGenerateSummary
	default:
		return ActionGenerateCoverLetter
	}
}

// ValidAction reports whether a is a known gateway action.
func ValidAction(a GatewayAction) bool {
	switch a {
	case ActionGenerateCoverLetter, ActionAnalyzeSkillGap, ActionGenerateSummary:
		return true
	}
	return false
}
