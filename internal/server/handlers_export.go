package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/session"
)

// handleExport renders the résumé of the active tab as a PDF download
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	doc, err := sess.Export(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.documentResponse(w, doc)
}

// handleExportStatus reports whether an export is running
func (s *Server) handleExportStatus(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	o := sess.Exporter()
	s.jsonResponse(w, http.StatusOK, ExportStatusResponse{Exporting: o.IsExporting(), Phase: o.Phase().String()})
}

func (s *Server) documentResponse(w http.ResponseWriter, doc *export.Document) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.PDF); err != nil {
		s.log.Warn("failed to write document", "filename", doc.Filename, "error", err)
	}
}
