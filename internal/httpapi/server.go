// Package httpapi serves a project's chart, balances, official settings
// and DFC reports over a read-only JSON API.
package httpapi

import (
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/safari-erp/safari/internal/dfc"
	"github.com/safari-erp/safari/internal/model"
)

// Source is the read side of a project.
type Source interface {
	Official() dfc.Config
	Report(cfg dfc.Config, period dfc.Period) (*dfc.Report, error)
	Chart() []model.Account
	Snapshots() []model.BalanceSnapshot
}

// Opener loads a Source. The server calls it on every request, so
// promotions and balances recorded while it runs are served at once.
type Opener func() (Source, error)

// Static returns an Opener that always yields src.
func Static(src Source) Opener {
	return func() (Source, error) { return src, nil }
}

// Server wires handlers and middleware using chi.
type Server struct {
	open Opener
	log  *slog.Logger
	rt   *chi.Mux
}

// New builds the router. Every request gets a request ID, is logged and
// counted, and panics become 500s.
func New(open Opener, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{open: open, log: logger, rt: r}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

func (s *Server) routes() {
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/v1/accounts", s.listAccounts)
	s.rt.Get("/v1/balances", s.listBalances)
	s.rt.Get("/v1/settings", s.getSettings)
	s.rt.Get("/v1/dfc", s.getDFC)
	s.rt.Handle("/metrics", metricsHandler())
	s.rt.NotFound(func(w http.ResponseWriter, r *http.Request) { notFound(w) })
	s.rt.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed", "method_not_allowed")
	})
}

// source loads the project for one request. On failure it writes a 503
// and returns false.
func (s *Server) source(w http.ResponseWriter) (Source, bool) {
	src, err := s.open()
	if err != nil {
		s.log.Error("opening project failed", "err", err)
		writeErr(w, http.StatusServiceUnavailable, "project unavailable", "project_unavailable")
		return nil, false
	}
	return src, true
}
