package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/rosterboard/internal/render"
	"github.com/dgallion1/rosterboard/internal/service"
	"github.com/dgallion1/rosterboard/internal/sheets"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP surface for the roster page.
type Server struct {
	router chi.Router
	svc    *service.Service
	board  *render.Board
	page   *render.Page
	stats  *sheets.FetchStats
	title  string
	log    *slog.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(svc *service.Service, board *render.Board, page *render.Page, stats *sheets.FetchStats, title string, log *slog.Logger) *Server {
	s := &Server{
		svc:   svc,
		board: board,
		page:  page,
		stats: stats,
		title: title,
		log:   log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Get("/", s.handlePage)
	r.Get("/api/roster", s.handleRoster)
	r.Post("/api/refresh", s.handleRefresh)
	r.Get("/api/stats/fetch", s.handleFetchStats)

	r.Get("/export/roster.xlsx", s.handleExportXLSX)
	r.Get("/export/roster.docx", s.handleExportDOCX)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
