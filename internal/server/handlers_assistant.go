package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/resume-studio/internal/assistant"
	"github.com/jonathan/resume-studio/internal/session"
	"github.com/jonathan/resume-studio/internal/types"
)

// streamKeepAlive is the comment interval that keeps idle event streams open.
const streamKeepAlive = 15 * time.Second

// handleGetAssistant returns every job state
func (s *Server) handleGetAssistant(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	s.jsonResponse(w, http.StatusOK, AssistantResponse{Jobs: sess.Assistant().Snapshot()})
}

// handleResetAssistant returns every job to idle ("start over")
func (s *Server) handleResetAssistant(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	sess.Assistant().Reset()
	s.jsonResponse(w, http.StatusOK, AssistantResponse{Jobs: sess.Assistant().Snapshot()})
}

// handleStartJob starts one job. With ?wait=true the response is held until the job settles.
func (s *Server) handleStartJob(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	kind, err := types.ParseJobKind(r.PathValue("kind"))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	var req JobRequest
	if kind != types.JobSummary {
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.fail(w, err)
			return
		}
	}

	jobs := sess.Assistant()
	var done <-chan struct{}
	switch kind {
	case types.JobCoverLetter:
		done, err = jobs.GenerateCoverLetter(r.Context(), req.JobDescription)
	case types.JobSkillGap:
		done, err = jobs.AnalyzeSkillGap(r.Context(), req.JobDescription)
	case types.JobSummary:
		done, err = jobs.SummarizeAnalysis(r.Context())
	}
	if err != nil {
		s.fail(w, err)
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		select {
		case <-done:
		case <-r.Context().Done():
			return
		}
		s.jsonResponse(w, http.StatusOK, jobs.State(kind))
		return
	}
	s.jsonResponse(w, http.StatusAccepted, jobs.State(kind))
}

// handleDownload returns the held result of a job as a file
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	kind, err := types.ParseJobKind(r.PathValue("kind"))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	format := r.URL.Query().Get("format")

	if format == assistant.FormatPDF && kind == types.JobCoverLetter {
		doc, err := sess.ExportCoverLetter(r.Context())
		if err != nil {
			s.fail(w, err)
			return
		}
		s.documentResponse(w, doc)
		return
	}

	file, err := assistant.Download(sess.Assistant().State(kind), format, sess.AnalysisLabels())
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

// handleAssistantStream streams job state changes as Server-Sent Events.
// The current state of every job is sent first.
func (s *Server) handleAssistantStream(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	events, cancel := sess.Subscribe()
	defer cancel()

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Streams outlive the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})
	w.WriteHeader(http.StatusOK)

	for _, state := range sess.Assistant().Snapshot() {
		if err := sse.WriteJob(state); err != nil {
			return
		}
	}

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case state, ok := <-events:
			if !ok {
				sse.WriteError("session expired")
				return
			}
			if err := sse.WriteJob(state); err != nil {
				return
			}
		case <-ticker.C:
			if err := sse.WriteComment("keep-alive"); err != nil {
				return
			}
		}
	}
}
