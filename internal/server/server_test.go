package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/resume-studio/internal/assistant"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/gateway"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
	"github.com/jonathan/resume-studio/internal/session"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "0123456789abcdef0123"
	testDevCode  = "2010"
	analysisJSON = `{"skillGaps":[{"skill":"Kubernetes","reason":"not listed"}],"suggestions":["Run a cluster"],"matchPercentage":64}`
)

type stubInvoker struct {
	mu      sync.Mutex
	replies map[types.GatewayAction]string
	calls   []types.GatewayAction
}

func (s *stubInvoker) Invoke(_ context.Context, action types.GatewayAction, _ gateway.Payload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, action)
	return s.replies[action], nil
}

type stubRenderer struct {
	mu   sync.Mutex
	html []string
	opts []export.Options
}

func (r *stubRenderer) Render(_ context.Context, html string, opts export.Options) (*export.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.html = append(r.html, html)
	r.opts = append(r.opts, opts)
	return &export.Document{PDF: []byte("%PDF-1.4 test")}, nil
}

type testEnv struct {
	server   *Server
	handler  http.Handler
	sessions *session.Manager
	renderer *stubRenderer
	invoker  *stubInvoker
}

func newTestEnv(t *testing.T, rl *ratelimit.Config) *testEnv {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testDevCode), bcrypt.MinCost)
	require.NoError(t, err)

	inv := &stubInvoker{replies: map[types.GatewayAction]string{
		types.ActionGenerateCoverLetter: "Dear hiring team,\n\nI would love to join.",
		types.ActionAnalyzeSkillGap:     analysisJSON,
		types.ActionGenerateSummary:     "Strong fit with one gap.",
	}}
	r := &stubRenderer{}
	mgr := session.NewManager(session.Deps{Invoker: inv, Renderer: r, ExportSettle: time.Millisecond})

	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}
	srv, err := New(Config{
		Sessions:  mgr,
		Session:   &config.SessionConfig{Secret: testSecret, TTLHours: 1},
		DevMode:   &config.DevModeConfig{CodeHash: string(hash)},
		Gateway:   http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }),
		Metrics:   http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
		RateLimit: rl,
	})
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, handler: srv.Handler(), sessions: mgr, renderer: r, invoker: inv}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "10.0.0.1:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) newSession(t *testing.T) SessionResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/sessions", "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, "ok", resp["status"])
}

func TestMountedHandlers(t *testing.T) {
	env := newTestEnv(t, nil)

	assert.Equal(t, http.StatusTeapot, env.do(t, http.MethodPost, "/api/gateway", "", nil).Code)
	w := env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, "# metrics", w.Body.String())
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodOptions, "/api/view", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestSessionRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, nil)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/view", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/view", "garbage", nil).Code)

	// valid signature, unknown session
	token, err := env.server.tokens.GenerateToken("no-such-session")
	require.NoError(t, err)
	w := env.do(t, http.MethodGet, "/api/view", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "session not found")
}

func TestGetView_Defaults(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.newSession(t)

	w := env.do(t, http.MethodGet, "/api/view", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[ViewResponse](t, w)

	assert.Equal(t, sess.SessionID, view.SessionID)
	assert.Equal(t, types.TabFull, view.Tab)
	assert.Equal(t, "en", view.Language)
	assert.ElementsMatch(t, []string{"da", "en", "sv"}, view.Languages)
	assert.Equal(t, "Ronny Christensen", view.Name)
	assert.NotEmpty(t, view.Experiences)
	assert.True(t, view.UnderDevelopment)
	assert.Len(t, view.Sections, 4)
	assert.False(t, view.AllCollapsed)
}

func TestSetTab(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.newSession(t)

	w := env.do(t, http.MethodPut, "/api/view/tab", sess.Token, SetTabRequest{Tab: "references"})
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[ViewResponse](t, w)
	assert.Equal(t, types.TabReferences, view.Tab)
	assert.NotEmpty(t, view.References)
	assert.Equal(t, map[string]bool{"references": false}, view.Sections)

	w = env.do(t, http.MethodPut, "/api/view/tab", sess.Token, SetTabRequest{Tab: "astronaut"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/view/tab", sess.Token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "tab")
}

func TestSetLanguage(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.newSession(t)

	w := env.do(t, http.MethodPut, "/api/view/language", sess.Token, SetLanguageRequest{Language: "da"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "da", decode[ViewResponse](t, w).Language)

	w = env.do(t, http.MethodPut, "/api/view/language", sess.Token, SetLanguageRequest{Language: "fr"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleSections(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.newSession(t)

	w := env.do(t, http.MethodPost, "/api/sections/skills/toggle", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, SectionResponse{ID: "skills", Collapsed: true}, decode[SectionResponse](t, w))

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/sections/hobbies/toggle", sess.Token, nil).Code)

	// one collapsed: toggle-all collapses the rest
	w = env.do(t, http.MethodPost, "/api/sections/toggle-all", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[ToggleAllResponse](t, w)
	assert.True(t, all.Collapsed)
	for id, collapsed := range all.Sections {
		assert.True(t, collapsed, id)
	}

	w = env.do(t, http.MethodPost, "/api/sections/toggle-all", sess.Token, nil)
	assert.False(t, decode[ToggleAllResponse](t, w).Collapsed)

	// references flag untouched on a role tab
	s, ok := env.sessions.Get(sess.SessionID)
	require.True(t, ok)
	assert.False(t, s.Sections().IsCollapsed("references"))
}

func TestGetPage(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.newSession(t)

	env.do(t, http.MethodPost, "/api/sections/education/toggle", sess.Token, nil)
	w := env.do(t, http.MethodGet, "/api/view/page", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `id="education" class="collapsed"`)
}

func TestDevMode(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.newSession(t)

	w := env.do(t, http.MethodPost, "/api/dev-mode", sess.Token, DevModeRequest{Code: "1999"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/dev-mode", sess.Token, DevModeRequest{Code: testDevCode})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, DevModeResponse{Tab: types.TabFull, UnderDevelopment: false}, decode[DevModeResponse](t, w))

	w = env.do(t, http.MethodPost, "/api/dev-mode", sess.Token, DevModeRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.newSession(t)
	env.do(t, http.MethodPost, "/api/sections/skills/toggle", sess.Token, nil)

	w := env.do(t, http.MethodPost, "/api/export", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Ronny_Christensen_Resume_EN.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	require.Len(t, env.renderer.html, 1)
	assert.NotContains(t, env.renderer.html[0], `class="collapsed"`)

	w = env.do(t, http.MethodGet, "/api/export", sess.Token, nil)
	assert.Equal(t, ExportStatusResponse{Exporting: false, Phase: "idle"}, decode[ExportStatusResponse](t, w))

	w = env.do(t, http.MethodGet, "/api/view", sess.Token, nil)
	assert.True(t, decode[ViewResponse](t, w).Sections["skills"])
}

func TestAssistantFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.newSession(t)

	w := env.do(t, http.MethodPost, "/api/assistant/cover-letter?wait=true", sess.Token, JobRequest{JobDescription: "Head coach"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	letter := decode[assistant.JobState](t, w)
	assert.Equal(t, assistant.StatusSuccess, letter.Status)
	assert.Contains(t, letter.Text, "Dear hiring team")

	w = env.do(t, http.MethodGet, "/api/assistant/cover-letter/download?format=txt", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cover_letter.txt")

	w = env.do(t, http.MethodGet, "/api/assistant/cover-letter/download?format=pdf", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Cover_Letter_Ronny_Christensen.pdf")

	w = env.do(t, http.MethodGet, "/api/assistant/cover-letter/download?format=json", sess.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// summary needs an analysis first
	w = env.do(t, http.MethodPost, "/api/assistant/summary", sess.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/assistant/skill-gap?wait=1", sess.Token, JobRequest{JobDescription: "Platform engineer"})
	require.Equal(t, http.StatusOK, w.Code)
	gap := decode[assistant.JobState](t, w)
	require.NotNil(t, gap.Analysis)
	assert.Equal(t, 64.0, gap.Analysis.MatchPercentage)

	w = env.do(t, http.MethodGet, "/api/assistant/skill-gap/download?format=json", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kubernetes")

	w = env.do(t, http.MethodPost, "/api/assistant/summary?wait=true", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Strong fit with one gap.", decode[assistant.JobState](t, w).Text)

	w = env.do(t, http.MethodDelete, "/api/assistant", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, job := range decode[AssistantResponse](t, w).Jobs {
		assert.Equal(t, assistant.StatusIdle, job.Status)
	}

	w = env.do(t, http.MethodGet, "/api/assistant/summary/download", sess.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartJob_Guards(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.newSession(t)

	w := env.do(t, http.MethodPost, "/api/assistant/cover-letter", sess.Token, JobRequest{JobDescription: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/assistant/poem", sess.Token, JobRequest{JobDescription: "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	env.invoker.mu.Lock()
	assert.Empty(t, env.invoker.calls)
	env.invoker.mu.Unlock()
}

func TestStartJob_Accepted(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.newSession(t)

	w := env.do(t, http.MethodPost, "/api/assistant/cover-letter", sess.Token, JobRequest{JobDescription: "Barista"})
	require.Equal(t, http.StatusAccepted, w.Code)

	s, ok := env.sessions.Get(sess.SessionID)
	require.True(t, ok)
	assert.Eventually(t, func() bool {
		return s.Assistant().State(types.JobCoverLetter).Status == assistant.StatusSuccess
	}, 2*time.Second, 5*time.Millisecond)
}

func TestAssistantStream(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.newSession(t)

	ts := httptest.NewServer(env.handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/assistant/stream?token="+sess.Token, nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	var states []assistant.JobState
	for len(states) < len(types.AllJobKinds()) {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if data, ok := strings.CutPrefix(strings.TrimSpace(line), "data: "); ok {
			var st assistant.JobState
			require.NoError(t, json.Unmarshal([]byte(data), &st))
			states = append(states, st)
		}
	}
	for _, st := range states {
		assert.Equal(t, assistant.StatusIdle, st.Status)
	}
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/api/sessions", Method: "POST", Limit: 2, Window: time.Hour, Burst: 2},
		},
	})

	env.newSession(t)
	env.newSession(t)
	w := env.do(t, http.MethodPost, "/api/sessions", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
