// Package server exposes the search engine over HTTP. It is one of the two
// hosts (the CLI being the other) and owns everything the engine deliberately
// does not: request decoding, history archiving, metrics recording.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/FranksOps/dossier/internal/history"
	"github.com/FranksOps/dossier/internal/metrics"
	"github.com/FranksOps/dossier/internal/search"
)

// Config holds the server settings.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Server hosts the search API. Each request drives its own independent run;
// the engine serializes work within a run but the server happily serves runs
// concurrently.
type Server struct {
	cfg      Config
	engine   *search.Engine
	registry *search.Registry
	store    history.Store // optional
	logger   *slog.Logger
	router   chi.Router
}

// New assembles the HTTP server. store may be nil to disable run archiving.
func New(cfg Config, engine *search.Engine, registry *search.Registry, store history.Store, logger *slog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		engine:   engine,
		registry: registry,
		store:    store,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/platforms", s.handlePlatforms)
	r.Post("/api/search", s.handleSearch)
	s.router = r

	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.router,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("http server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type searchRequest struct {
	Query     string   `json:"query"`
	Type      string   `json:"type"`
	Platforms []string `json:"platforms"`
}

type searchResponse struct {
	Run   *search.Run  `json:"run"`
	Stats search.Stats `json:"stats"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = s.registry.IDs()
	}

	q := search.Query{Text: req.Query, Type: search.QueryType(req.Type)}
	run, err := s.engine.Run(r.Context(), q, platforms, search.LogProgress(s.logger))

	var verr *search.ValidationError
	switch {
	case errors.As(err, &verr):
		metrics.RecordRun("rejected")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Reason: string(verr.Reason)})
		return
	case err != nil:
		// Client went away mid-run; the partial run is not worth archiving.
		metrics.RecordRun("canceled")
		s.logger.Warn("search run interrupted", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "search interrupted"})
		return
	}

	metrics.RecordRun("completed")
	if s.store != nil {
		if err := s.store.SaveRun(r.Context(), run); err != nil {
			// Archiving is best-effort; the caller still gets their results.
			s.logger.Error("failed to archive run", "run_id", run.ID, "err", err)
		}
	}

	writeJSON(w, http.StatusOK, searchResponse{Run: run, Stats: run.Stats()})
}

type platformInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CheckMethod string `json:"check_method"`
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	var out []platformInfo
	for _, id := range s.registry.IDs() {
		a, ok := s.registry.Lookup(id)
		if !ok {
			continue
		}
		out = append(out, platformInfo{
			ID:          a.ID(),
			Name:        a.Name(),
			CheckMethod: string(a.CheckMethod()),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
