package server

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/simonvc/minipnl/internal/insights"
	"github.com/simonvc/minipnl/internal/store"
)

type Server struct {
	store    *store.Store
	router   chi.Router
	addr     string
	log      zerolog.Logger
	insights insights.Generator
}

type Option func(*Server)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithInsights sets the text generator behind POST /insights. Without one,
// requests must carry their own api_key.
func WithInsights(g insights.Generator) Option {
	return func(s *Server) { s.insights = g }
}

func New(st *store.Store, addr string, opts ...Option) *Server {
	r := chi.NewRouter()
	s := &Server{store: st, router: r, addr: addr, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.health)

		// Ingestion
		r.Post("/upload", s.upload)
		r.Get("/batch", s.currentBatch)
		r.Get("/transactions", s.listTransactions)

		// Mapping rules
		r.Get("/mappings", s.listMappings)
		r.Put("/mappings", s.replaceMappings)
		r.Post("/mappings/reset", s.resetMappings)

		// Reports
		r.Get("/pnl", s.pnl)
		r.Get("/dashboard", s.dashboard)
		r.Get("/drilldown", s.drillDown)
		r.Get("/breakdown/{metric}", s.breakdown)
		r.Get("/export/pnl.xlsx", s.exportXLSX)
		r.Post("/insights", s.generateInsights)

		// Statement layout reference
		r.Get("/lines", s.lines)

		// Manual overrides
		r.Get("/overrides", s.listOverrides)
		r.Put("/overrides", s.replaceOverrides)
		r.Delete("/overrides", s.clearOverrides)
		r.Put("/overrides/{row}/{period}", s.setOverride)
		r.Delete("/overrides/{row}/{period}", s.clearOverride)
	})

	return s
}

func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.addr).Msg("minipnl server listening")
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) Serve(ln net.Listener) error {
	s.log.Info().Str("addr", ln.Addr().String()).Msg("minipnl server listening")
	return http.Serve(ln, s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
