package types

import (
	"github.com/go-playground/validator/v10"
)

// SkillGap is one requirement from a job description that the résumé does not evidence well.
type SkillGap struct {
	Skill  string `json:"skill" validate:"required"`
	Reason string `json:"reason"`
}

// SkillGapResult is the structured output of a skill gap analysis.
type SkillGapResult struct {
	SkillGaps       []SkillGap `json:"skillGaps" validate:"dive"`
	Suggestions     []string   `json:"suggestions"`
	MatchPercentage float64    `json:"matchPercentage" validate:"gte=0,lte=100"`
}

// Validate validates the SkillGapResult using the validator.
func (r *SkillGapResult) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
