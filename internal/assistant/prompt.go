package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-studio/internal/filter"
	"github.com/jonathan/resume-studio/internal/gateway"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/prompts"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

// ExperienceGroup is one experience flattened for the prompt.
type ExperienceGroup struct {
	Heading string
	Bullets []string
}

// PromptContext is the résumé slice sent with every job.
type PromptContext struct {
	SubjectName       string
	SummaryText       string
	SkillNames        []string
	ExperienceBullets []ExperienceGroup
}

// BuildPromptContext derives the prompt context from a filtered view.
// Each group lists fitness bullets before professional bullets.
func BuildPromptContext(subjectName string, view filter.View) PromptContext {
	pc := PromptContext{
		SubjectName:       subjectName,
		SummaryText:       view.Summary,
		SkillNames:        make([]string, 0, len(view.Skills)),
		ExperienceBullets: make([]ExperienceGroup, 0, len(view.Experiences)),
	}
	for _, skill := range view.Skills {
		pc.SkillNames = append(pc.SkillNames, skill.Name)
	}
	for _, exp := range view.Experiences {
		bullets := make([]string, 0, len(exp.Achievements.Fitness)+len(exp.Achievements.Professional))
		bullets = append(bullets, exp.Achievements.Fitness...)
		bullets = append(bullets, exp.Achievements.Professional...)
		pc.ExperienceBullets = append(pc.ExperienceBullets, ExperienceGroup{
			Heading: fmt.Sprintf("%s at %s (%s):", exp.Role, exp.Company, exp.Duration),
			Bullets: bullets,
		})
	}
	return pc
}

// ExperienceText renders the experience groups as prompt text.
func (pc PromptContext) ExperienceText() string {
	groups := make([]string, 0, len(pc.ExperienceBullets))
	for _, g := range pc.ExperienceBullets {
		var sb strings.Builder
		sb.WriteString(g.Heading)
		for _, b := range g.Bullets {
			sb.WriteString("\n- ")
			sb.WriteString(b)
		}
		groups = append(groups, sb.String())
	}
	return strings.Join(groups, "\n\n")
}

func (pc PromptContext) values(languageName, jobDescription string) map[string]string {
	return map[string]string{
		"Language":       languageName,
		"Name":           pc.SubjectName,
		"Summary":        pc.SummaryText,
		"Skills":         strings.Join(pc.SkillNames, ", "),
		"Experience":     pc.ExperienceText(),
		"JobDescription": jobDescription,
	}
}

func buildPayload(system, user string, values map[string]string) (gateway.Payload, error) {
	systemText, err := prompts.Render(prompts.AssistantFile, system, values)
	if err != nil {
		return gateway.Payload{}, fmt.Errorf("failed to build system instruction: %w", err)
	}
	userText, err := prompts.Render(prompts.AssistantFile, user, values)
	if err != nil {
		return gateway.Payload{}, fmt.Errorf("failed to build prompt: %w", err)
	}
	return gateway.Payload{Prompt: userText, SystemInstruction: systemText}, nil
}

// CoverLetterPayload builds the cover letter request.
func CoverLetterPayload(pc PromptContext, languageName, jobDescription string) (gateway.Payload, error) {
	return buildPayload("cover-letter-system", "cover-letter-user", pc.values(languageName, jobDescription))
}

// SkillGapPayload builds the skill gap request with its response schema.
func SkillGapPayload(pc PromptContext, languageName, jobDescription string) (gateway.Payload, error) {
	payload, err := buildPayload("skill-gap-system", "skill-gap-user", pc.values(languageName, jobDescription))
	if err != nil {
		return gateway.Payload{}, err
	}
	payload.ResponseSchema = SkillGapResponseSchema()
	return payload, nil
}

// SummaryPayload builds the analysis summary request.
func SummaryPayload(analysis *types.SkillGapResult, languageName string) (gateway.Payload, error) {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return gateway.Payload{}, fmt.Errorf("failed to encode analysis: %w", err)
	}
	return buildPayload("summary-system", "summary-user", map[string]string{
		"Language": languageName,
		"Analysis": string(data),
	})
}

// SkillGapResponseSchema is the Gemini response schema for a skill gap analysis.
func SkillGapResponseSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"skillGaps": map[string]any{
				"type":        "ARRAY",
				"description": "List of skills or experiences from the job description that are weakly represented in the resume.",
				"items": map[string]any{
					"type": "OBJECT",
					"properties": map[string]any{
						"skill":  map[string]any{"type": "STRING", "description": "The specific skill or requirement from the job description."},
						"reason": map[string]any{"type": "STRING", "description": "A brief explanation of why this is considered a gap based on the provided resume information."},
					},
				},
			},
			"suggestions": map[string]any{
				"type":        "ARRAY",
				"description": "A list of actionable suggestions for improvement.",
				"items":       map[string]any{"type": "STRING"},
			},
			"matchPercentage": map[string]any{
				"type":        "NUMBER",
				"description": "An estimated percentage (0-100) of how well the resume matches the job description.",
			},
		},
	}
}

// ParseSkillGap parses and validates a skill gap response.
func ParseSkillGap(text string) (*types.SkillGapResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Message: "empty skill gap response"}
	}
	cleaned, err := llm.StrictJSON(text)
	if err != nil {
		return nil, &ParseError{Message: "skill gap response is not a single JSON object", Cause: err}
	}
	if err := schemas.Validate(schemas.SkillGapSchema, cleaned); err != nil {
		return nil, &ParseError{Message: "skill gap response does not match schema", Cause: err}
	}

	var result types.SkillGapResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &ParseError{Message: "failed to decode skill gap response", Cause: err}
	}
	if err := result.Validate(); err != nil {
		return nil, &ParseError{Message: "invalid skill gap result", Cause: err}
	}
	return &result, nil
}
