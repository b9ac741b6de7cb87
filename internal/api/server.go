package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/handlog/internal/analysis"
	"github.com/MikeSquared-Agency/handlog/internal/handlog"
	"github.com/MikeSquared-Agency/handlog/internal/loader"
	"github.com/MikeSquared-Agency/handlog/internal/metrics"
)

// Options configures the HTTP server.
type Options struct {
	Port       int
	APIToken   string
	LogFile    string
	SampleSize int
	SampleSeed uint64
}

type Server struct {
	router *chi.Mux
	opts   Options
	loader *loader.Loader
	logger *slog.Logger
}

func NewServer(opts Options, ld *loader.Loader, logger *slog.Logger) *Server {
	if opts.SampleSize <= 0 {
		opts.SampleSize = analysis.DefaultSampleSize
	}

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		opts:   opts,
		loader: ld,
		logger: logger,
	}

	router.Get("/health", s.health)
	router.Handle("/metrics", metrics.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(opts.APIToken))
		r.Get("/records", s.listRecords)
		r.Get("/records/{index}", s.getRecord)
		r.Get("/summary", s.summary)
		r.Get("/export.{format}", s.export)
	})

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	s.logger.Info("API server starting", "addr", addr, "log_file", s.opts.LogFile)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// load fetches the configured log, writing the error response itself when
// it fails.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*loader.Result, bool) {
	res, err := s.loader.Load(r.Context(), s.opts.LogFile)
	if err == nil {
		return res, true
	}
	switch {
	case errors.Is(err, handlog.ErrLogNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("failed to load log", "path", s.opts.LogFile, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
