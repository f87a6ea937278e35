package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/assistant"
	"github.com/jonathan/resume-studio/internal/content"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/filter"
	"github.com/jonathan/resume-studio/internal/gateway"
	"github.com/jonathan/resume-studio/internal/logging"
	"github.com/jonathan/resume-studio/internal/metrics"
	"github.com/jonathan/resume-studio/internal/sections"
	"github.com/jonathan/resume-studio/internal/types"
)

// Deps are the shared collaborators of every session.
type Deps struct {
	Loader            *content.Loader
	Invoker           gateway.Invoker
	Renderer          export.Renderer
	Log               *logging.Logger
	Metrics           *metrics.Recorder
	FilterMap         filter.FilterMap
	DefaultLanguage   string
	CollapsedDefaults map[string]bool
	ExportOptions     export.Options
	ExportSettle      time.Duration
	JobTimeout        time.Duration
	IdleTimeout       time.Duration
}

// Manager creates, finds and expires sessions.
type Manager struct {
	deps Deps
	memo *filter.Memo
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a Manager. Zero-valued deps get defaults.
func NewManager(deps Deps) *Manager {
	if deps.Loader == nil {
		deps.Loader = content.NewLoader()
	}
	if deps.Invoker == nil {
		deps.Invoker = gateway.Unavailable{}
	}
	if deps.Log == nil {
		deps.Log = logging.Nop()
	}
	if deps.FilterMap == nil {
		deps.FilterMap = filter.DefaultFilterMap()
	}
	if deps.DefaultLanguage == "" {
		deps.DefaultLanguage = content.DefaultLanguage
	}
	if deps.ExportOptions == (export.Options{}) {
		deps.ExportOptions = export.DefaultOptions()
	}
	if deps.JobTimeout <= 0 {
		deps.JobTimeout = assistant.DefaultTimeout
	}
	if deps.IdleTimeout <= 0 {
		deps.IdleTimeout = time.Hour
	}

	return &Manager{
		deps:     deps,
		memo:     filter.NewMemo(deps.FilterMap),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session on the full tab in the default language.
func (m *Manager) Create() (*Session, error) {
	bundle, err := m.deps.Loader.Load(m.deps.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("failed to load default language: %w", err)
	}

	s := &Session{
		ID:        uuid.NewString(),
		loader:    m.deps.Loader,
		memo:      m.memo,
		sections:  sections.NewStore(m.deps.CollapsedDefaults),
		events:    newBroadcaster(),
		options:   m.deps.ExportOptions,
		tab:       types.TabFull,
		bundle:    bundle,
		devStatus: DefaultDevelopmentStatus(),
		lastSeen:  m.now(),
	}

	log := m.deps.Log.With("session", s.ID)

	s.renderer = m.deps.Renderer
	exportOpts := []export.Option{export.WithMetrics(m.deps.Metrics)}
	if m.deps.ExportSettle > 0 {
		exportOpts = append(exportOpts, export.WithSettleDelay(m.deps.ExportSettle))
	}
	s.exporter = export.NewOrchestrator(s.sections, export.PageFunc(s.Page), s.renderer, log, exportOpts...)

	s.jobs = assistant.NewController(m.deps.Invoker, s.PromptContext, log,
		assistant.WithLocale(localeFor(bundle)),
		assistant.WithTimeout(m.deps.JobTimeout),
		assistant.WithMetrics(m.deps.Metrics),
		assistant.WithNotify(s.events.publish),
	)

	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()

	m.deps.Metrics.SetActiveSessions(n)
	log.Info("session created", "language", bundle.Language)
	return s, nil
}

// Get returns a live session and marks it used. Expired sessions are removed.
func (m *Manager) Get(id string) (*Session, bool) {
	now := m.now()

	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok && s.idleSince(now) > m.deps.IdleTimeout {
		delete(m.sessions, id)
		ok = false
		defer s.close()
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		m.deps.Metrics.SetActiveSessions(n)
		return nil, false
	}
	s.touch(now)
	return s, true
}

// Sweep removes every expired session and returns how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince(now) > m.deps.IdleTimeout {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		m.deps.Log.Info("expired idle sessions", "count", len(expired), "active", n)
	}
	m.deps.Metrics.SetActiveSessions(n)
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Len returns the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Languages lists the languages a session can switch to.
func (m *Manager) Languages() []string {
	return content.Languages()
}
