// Package session holds the presentation state of one visitor.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/resume-studio/internal/assistant"
	"github.com/jonathan/resume-studio/internal/content"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/filter"
	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/jonathan/resume-studio/internal/sections"
	"github.com/jonathan/resume-studio/internal/types"
)

// DefaultDevelopmentStatus returns which tabs start flagged as under development.
func DefaultDevelopmentStatus() map[types.Tab]bool {
	return map[types.Tab]bool{
		types.TabFull:            true,
		types.TabFitness:         false,
		types.TabTech:            true,
		types.TabManagement:      false,
		types.TabContentCreation: true,
		types.TabReferences:      false,
	}
}

// Session is one visitor's state. Methods are safe for concurrent use.
type Session struct {
	ID string

	loader   *content.Loader
	memo     *filter.Memo
	sections *sections.Store
	exporter *export.Orchestrator
	renderer export.Renderer
	jobs     *assistant.Controller
	events   *broadcaster
	options  export.Options

	mu        sync.RWMutex
	tab       types.Tab
	bundle    *content.Bundle
	devStatus map[types.Tab]bool
	lastSeen  time.Time
}

// Tab returns the active tab.
func (s *Session) Tab() types.Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tab
}

// SetTab switches the active tab. Collapse flags are kept as they are.
func (s *Session) SetTab(tab types.Tab) {
	s.mu.Lock()
	s.tab = tab
	s.mu.Unlock()
}

// Language returns the active language code.
func (s *Session) Language() string {
	return s.Bundle().Language
}

// Bundle returns the content bundle of the active language.
func (s *Session) Bundle() *content.Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle
}

// SetLanguage reloads the profile in lang and retargets the assistant.
func (s *Session) SetLanguage(lang string) error {
	bundle, err := s.loader.Load(lang)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.bundle = bundle
	s.mu.Unlock()

	s.jobs.SetLocale(localeFor(bundle))
	return nil
}

// View returns the filtered view of the active tab.
func (s *Session) View() filter.View {
	s.mu.RLock()
	tab, bundle := s.tab, s.bundle
	s.mu.RUnlock()
	return s.memo.View(tab, bundle.Profile)
}

// PromptContext builds the assistant context from the active view.
func (s *Session) PromptContext() assistant.PromptContext {
	bundle := s.Bundle()
	return assistant.BuildPromptContext(bundle.Profile.Name, s.View())
}

// Page renders the active view as HTML with the current collapse flags.
func (s *Session) Page(context.Context) (string, error) {
	s.mu.RLock()
	tab, bundle, dev := s.tab, s.bundle, s.devStatus[s.tab]
	s.mu.RUnlock()

	view := s.memo.View(tab, bundle.Profile)
	return rendering.RenderPage(rendering.BuildPageData(bundle, view, s.sections, dev))
}

// Sections returns the collapse store.
func (s *Session) Sections() *sections.Store {
	return s.sections
}

// Assistant returns the job controller.
func (s *Session) Assistant() *assistant.Controller {
	return s.jobs
}

// Exporter returns the export orchestrator.
func (s *Session) Exporter() *export.Orchestrator {
	return s.exporter
}

// Export renders the résumé document for the active tab and language.
func (s *Session) Export(ctx context.Context) (*export.Document, error) {
	bundle := s.Bundle()
	opts := s.options
	opts.Filename = export.Filename(bundle.Profile.Name, bundle.Language)
	return s.exporter.Export(ctx, opts)
}

// ExportCoverLetter prints the held cover letter. It returns
// assistant.ErrNothingToDownload when no letter has been generated.
func (s *Session) ExportCoverLetter(ctx context.Context) (*export.Document, error) {
	state := s.jobs.State(types.JobCoverLetter)
	if state.Status != assistant.StatusSuccess || state.Text == "" {
		return nil, assistant.ErrNothingToDownload
	}
	return export.RenderLetter(ctx, s.renderer, s.Bundle().Profile.Name, state.Text)
}

// UnderDevelopment reports the development flag of tab.
func (s *Session) UnderDevelopment(tab types.Tab) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.devStatus[tab]
}

// DevelopmentStatus returns a copy of every tab's development flag.
func (s *Session) DevelopmentStatus() map[types.Tab]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[types.Tab]bool, len(s.devStatus))
	for k, v := range s.devStatus {
		out[k] = v
	}
	return out
}

// ToggleDevelopment flips the development flag of the active tab and returns it.
func (s *Session) ToggleDevelopment() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devStatus[s.tab] = !s.devStatus[s.tab]
	return s.devStatus[s.tab]
}

// Subscribe streams assistant job changes until cancel is called.
func (s *Session) Subscribe() (<-chan assistant.JobState, func()) {
	return s.events.subscribe()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) close() {
	s.jobs.Reset()
	s.events.closeAll()
}

func localeFor(bundle *content.Bundle) assistant.Locale {
	return assistant.Locale{
		LanguageName: bundle.LanguageName,
		Errors:       bundle.Assistant.Errors,
	}
}

// AnalysisLabels returns the localized report labels of the active language.
func (s *Session) AnalysisLabels() assistant.AnalysisLabels {
	a := s.Bundle().Assistant
	return assistant.AnalysisLabels{
		Title:            a.Title,
		MatchScoreTitle:  a.MatchScoreTitle,
		MatchScoreLabel:  a.MatchScoreLabel,
		GapsTitle:        a.GapsTitle,
		NoGapsFound:      a.NoGapsFound,
		SuggestionsTitle: a.SuggestionsTitle,
		SummaryTitle:     a.SummaryTitle,
	}
}
