// Package server exposes the store's action surface over a local HTTP JSON
// API. It is a UI collaborator, not part of the state core: every handler
// goes through the store's actions and snapshot views.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/jobtracker/internal/store"
)

// Server is the local HTTP API over one store instance.
type Server struct {
	store    *store.Store
	logger   *slog.Logger
	registry *prom.Registry
	httpSrv  *http.Server
}

// New builds the server; registry may be nil to omit /metrics.
func New(st *store.Store, logger *slog.Logger, registry *prom.Registry, listen string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{store: st, logger: logger, registry: registry}
	s.httpSrv = &http.Server{
		Addr:              listen,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/applications", s.handleListApplications)
	mux.HandleFunc("POST /api/applications", s.handleCreateApplication)
	mux.HandleFunc("PATCH /api/applications/{id}", s.handleUpdateApplication)
	mux.HandleFunc("DELETE /api/applications/{id}", s.handleDeleteApplication)
	mux.HandleFunc("POST /api/applications/{id}/status", s.handleChangeStatus)
	mux.HandleFunc("GET /api/applications/{id}/tasks", s.handleApplicationTasks)
	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("PUT /api/settings/filters", s.handleSetFilters)
	mux.HandleFunc("PUT /api/settings/theme", s.handleSetTheme)
	mux.HandleFunc("PUT /api/settings/weekly-goal", s.handleSetWeeklyGoal)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/report", s.handleReport)

	if s.registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return s.logRequests(mux)
}

// logRequests is the single middleware: one slog line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// Run serves until ctx is cancelled, then flushes the store and shuts
// down. The last debounce window of edits must not die with the process.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.store.Flush(shutdownCtx)
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Handler exposes the route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}
