package server

import (
	"net/http"
	"slices"

	"github.com/jonathan/resume-studio/internal/sections"
	"github.com/jonathan/resume-studio/internal/session"
	"github.com/jonathan/resume-studio/internal/types"
)

// handleCreateSession starts a visitor session and returns its token
func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.fail(w, err)
		return
	}
	token, err := s.tokens.GenerateToken(sess.ID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, SessionResponse{Token: token, SessionID: sess.ID})
}

func (s *Server) buildView(sess *session.Session) ViewResponse {
	bundle := sess.Bundle()
	view := sess.View()
	store := sess.Sections()
	visible := sections.VisibleSections(view.Tab)

	resp := ViewResponse{
		SessionID:        sess.ID,
		Tab:              view.Tab,
		Language:         bundle.Language,
		Languages:        s.sessions.Languages(),
		Name:             bundle.Profile.Name,
		Headline:         view.Headline,
		Summary:          view.Summary,
		Skills:           view.Skills,
		Experiences:      view.Experiences,
		Sections:         viewSections(store.IsCollapsed, visible),
		AllCollapsed:     store.AllCollapsed(view.Tab),
		UnderDevelopment: sess.UnderDevelopment(view.Tab),
		Exporting:        sess.Exporter().IsExporting(),
	}
	if view.Tab == types.TabReferences {
		resp.References = bundle.Profile.References
	} else {
		resp.Education = bundle.Profile.Education
	}
	return resp
}

// handleGetView returns the filtered view of the active tab
func (s *Server) handleGetView(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	s.jsonResponse(w, http.StatusOK, s.buildView(sess))
}

// handleGetPage returns the rendered HTML page of the active tab
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	page, err := sess.Page(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

// handleSetTab switches the active tab
func (s *Server) handleSetTab(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req SetTabRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	tab, err := types.ParseTab(req.Tab)
	if err != nil {
		s.fail(w, &ErrValidation{Field: "tab", Message: err.Error()})
		return
	}
	sess.SetTab(tab)
	s.jsonResponse(w, http.StatusOK, s.buildView(sess))
}

// handleSetLanguage reloads the profile in another language
func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req SetLanguageRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := sess.SetLanguage(req.Language); err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.buildView(sess))
}

// handleToggleSection flips one section's collapse flag
func (s *Server) handleToggleSection(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id := r.PathValue("id")
	if !slices.Contains(sections.All(), id) {
		s.errorResponse(w, http.StatusNotFound, "unknown section: "+id)
		return
	}
	collapsed := sess.Sections().Toggle(id)
	s.jsonResponse(w, http.StatusOK, SectionResponse{ID: id, Collapsed: collapsed})
}

// handleToggleAll collapses or expands every visible section of the active tab
func (s *Server) handleToggleAll(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	tab := sess.Tab()
	store := sess.Sections()
	collapsed := store.ToggleAll(tab)
	s.jsonResponse(w, http.StatusOK, ToggleAllResponse{
		Collapsed: collapsed,
		Sections:  viewSections(store.IsCollapsed, sections.VisibleSections(tab)),
	})
}

// handleDevMode toggles the under-development notice of the active tab
func (s *Server) handleDevMode(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req DevModeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if !s.devMode.Verify(req.Code) {
		s.log.Warn("rejected developer code", "session", sess.ID)
		s.fail(w, &ErrInvalidDevCode{})
		return
	}
	flag := sess.ToggleDevelopment()
	s.jsonResponse(w, http.StatusOK, DevModeResponse{Tab: sess.Tab(), UnderDevelopment: flag})
}
