package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/dgallion1/rosterboard/internal/render"
)

// handlePage runs a refresh and renders the view that cycle left behind. A
// failed refresh still renders the page; the view carries the error message.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Refresh(r.Context())
	if err != nil {
		s.log.Warn("page rendered after failed refresh", "error", err)
	}

	var buf bytes.Buffer
	if err := s.page.Write(&buf, v); err != nil {
		s.log.Error("render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleRoster returns the current board without fetching.
func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.board.Snapshot())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Refresh(r.Context())
	if err != nil {
		jsonError(w, render.LoadErrorMessage, http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"total":  v.Total,
		"male":   v.Male,
		"female": v.Female,
	})
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Load(r.Context())
	if err != nil {
		s.log.Error("export xlsx", "error", err)
		jsonError(w, render.LoadErrorMessage, http.StatusBadGateway)
		return
	}
	var buf bytes.Buffer
	if err := render.WriteXLSX(&buf, render.Rows(res.Records), res.Summary); err != nil {
		s.log.Error("export xlsx", "error", err)
		jsonError(w, "failed to build workbook", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="roster.xlsx"`)
	w.Write(buf.Bytes())
}

func (s *Server) handleExportDOCX(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Load(r.Context())
	if err != nil {
		s.log.Error("export docx", "error", err)
		jsonError(w, render.LoadErrorMessage, http.StatusBadGateway)
		return
	}
	var buf bytes.Buffer
	if err := render.WriteDOCX(&buf, s.title, render.Rows(res.Records), res.Summary); err != nil {
		s.log.Error("export docx", "error", err)
		jsonError(w, "failed to build document", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", `attachment; filename="roster.docx"`)
	w.Write(buf.Bytes())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
