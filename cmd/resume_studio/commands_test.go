package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jonathan/resume-studio/internal/assistant"
	"github.com/jonathan/resume-studio/internal/gateway"
	"github.com/jonathan/resume-studio/internal/logging"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	return cmd, &out
}

func TestRunView_Text(t *testing.T) {
	viewTab, viewLanguage, viewJSON = "tech", "en", false
	cmd, out := newTestCommand()

	require.NoError(t, runView(cmd, nil))
	assert.Contains(t, out.String(), "Name:")
	assert.Contains(t, out.String(), "Experiences:")
}

func TestRunView_JSON(t *testing.T) {
	viewTab, viewLanguage, viewJSON = "fitness", "da", true
	t.Cleanup(func() { viewJSON = false })
	cmd, out := newTestCommand()

	require.NoError(t, runView(cmd, nil))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "fitness", decoded["tab"])
	assert.NotEmpty(t, decoded["experiences"])
}

func TestRunView_Errors(t *testing.T) {
	tests := []struct {
		name string
		tab  string
		lang string
	}{
		{"unknown tab", "sales", "en"},
		{"unknown language", "full", "fr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viewTab, viewLanguage, viewJSON = tt.tab, tt.lang, false
			cmd, _ := newTestCommand()
			assert.Error(t, runView(cmd, nil))
		})
	}
}

func TestRunCheckFilters(t *testing.T) {
	cmd, out := newTestCommand()

	require.NoError(t, runCheckFilters(cmd, nil))
	for _, lang := range []string{"en", "da", "sv"} {
		assert.Contains(t, out.String(), "Language "+lang)
	}
}

func TestReadJobDescription(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "job.txt")
		require.NoError(t, os.WriteFile(path, []byte("Senior Go engineer"), 0644))

		got, err := readJobDescription(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "Senior Go engineer", got)
	})

	t.Run("stdin", func(t *testing.T) {
		got, err := readJobDescription("-", strings.NewReader("Head coach"))
		require.NoError(t, err)
		assert.Equal(t, "Head coach", got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readJobDescription(filepath.Join(t.TempDir(), "nope.txt"), nil)
		assert.ErrorContains(t, err, "failed to read job description")
	})
}

type scriptedInvoker struct {
	mu      sync.Mutex
	actions []types.GatewayAction
}

func (s *scriptedInvoker) Invoke(_ context.Context, action types.GatewayAction, _ gateway.Payload) (string, error) {
	s.mu.Lock()
	s.actions = append(s.actions, action)
	s.mu.Unlock()

	switch action {
	case types.ActionGenerateCoverLetter:
		return "Dear hiring manager,", nil
	case types.ActionAnalyzeSkillGap:
		return `{"skillGaps":[],"suggestions":["Ship more Go"],"matchPercentage":80}`, nil
	}
	return "", errors.New("unexpected action")
}

func TestRunJobs(t *testing.T) {
	inv := &scriptedInvoker{}
	source := func() assistant.PromptContext { return assistant.PromptContext{SubjectName: "Test"} }
	ctrl := assistant.NewController(inv, source, logging.Nop())

	require.NoError(t, runJobs(context.Background(), ctrl, "Go developer"))

	assert.Equal(t, assistant.StatusSuccess, ctrl.State(types.JobCoverLetter).Status)
	assert.Equal(t, assistant.StatusSuccess, ctrl.State(types.JobSkillGap).Status)
	assert.ElementsMatch(t, []types.GatewayAction{types.ActionGenerateCoverLetter, types.ActionAnalyzeSkillGap}, inv.actions)
}

func TestRunJobs_EmptyDescription(t *testing.T) {
	source := func() assistant.PromptContext { return assistant.PromptContext{} }
	ctrl := assistant.NewController(&scriptedInvoker{}, source, logging.Nop())

	err := runJobs(context.Background(), ctrl, "   ")
	assert.ErrorIs(t, err, assistant.ErrEmptyJobDescription)
}
