package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const skillGapSchemaJSON = `{
  "type": "OBJECT",
  "properties": {
    "skillGaps": {
      "type": "ARRAY",
      "description": "gaps",
      "items": {
        "type": "OBJECT",
        "properties": {
          "skill": {"type": "STRING"},
          "reason": {"type": "STRING"}
        }
      }
    },
    "suggestions": {"type": "ARRAY", "items": {"type": "STRING"}},
    "matchPercentage": {"type": "NUMBER"}
  },
  "required": ["matchPercentage"]
}`

func TestConvertSchema(t *testing.T) {
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(skillGapSchemaJSON), &raw))

	schema, err := ConvertSchema(raw)
	require.NoError(t, err)

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, []string{"matchPercentage"}, schema.Required)
	require.Contains(t, schema.Properties, "skillGaps")

	gaps := schema.Properties["skillGaps"]
	assert.Equal(t, genai.TypeArray, gaps.Type)
	assert.Equal(t, "gaps", gaps.Description)
	assert.Equal(t, genai.TypeObject, gaps.Items.Type)
	assert.Equal(t, genai.TypeString, gaps.Items.Properties["skill"].Type)
	assert.Equal(t, genai.TypeString, schema.Properties["suggestions"].Items.Type)
	assert.Equal(t, genai.TypeNumber, schema.Properties["matchPercentage"].Type)
}

func TestConvertSchema_LowercaseAndEnum(t *testing.T) {
	schema, err := ConvertSchema(map[string]any{"type": "string", "enum": []any{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, genai.TypeString, schema.Type)
	assert.Equal(t, []string{"a", "b"}, schema.Enum)
}

func TestConvertSchema_Errors(t *testing.T) {
	_, err := ConvertSchema(map[string]any{"type": "DATE"})
	assert.ErrorContains(t, err, "unsupported type")

	_, err = ConvertSchema(map[string]any{"type": "ARRAY"})
	assert.ErrorContains(t, err, "requires items")

	_, err = ConvertSchema(map[string]any{
		"type":       "OBJECT",
		"properties": map[string]any{"x": map[string]any{"type": "nope"}},
	})
	assert.ErrorContains(t, err, "(root).x")
}

func TestExtractTextFromResponse(t *testing.T) {
	_, err := extractTextFromResponse(&genai.GenerateContentResponse{})
	assert.ErrorContains(t, err, "no candidates")

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
	})
	assert.ErrorContains(t, err, "no content")

	text, err := extractTextFromResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{
			Parts: []genai.Part{genai.Text("Dear "), genai.Text("hiring manager")},
		}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dear hiring manager", text)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultConfig(), "")
	assert.ErrorContains(t, err, "API key is required")
}
