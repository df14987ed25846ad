// Package server exposes the loaded corpus over HTTP.
//
// All handlers read from the snapshot published through a
// store.Provider, so responses are internally consistent even while a
// reload swaps the corpus underneath.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mleroy/agora/internal/config"
	"github.com/mleroy/agora/internal/store"
)

// Server serves the archived forum over HTTP.
type Server struct {
	cfg      *config.Config
	provider *store.Provider
	logger   *slog.Logger
}

// New creates a Server. A nil logger falls back to slog.Default.
func New(cfg *config.Config, provider *store.Provider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		provider: provider,
		logger:   logger,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/info", s.handleInfo)
	mux.HandleFunc("GET /api/v1/categories", s.handleCategories)
	mux.HandleFunc("GET /api/v1/categories/tree", s.handleCategoryTree)
	mux.HandleFunc("GET /api/v1/categories/{path...}", s.handleCategory)
	mux.HandleFunc("GET /api/v1/topics", s.handleTopics)
	mux.HandleFunc("GET /api/v1/topics/recent", s.handleRecentTopics)
	mux.HandleFunc("GET /api/v1/topics/{path...}", s.handleTopic)
	mux.HandleFunc("GET /api/v1/search", s.handleSearch)

	// Exported image assets are served verbatim when the directory exists.
	if dir := s.cfg.ImagesDir(); dirExists(dir) {
		mux.Handle("GET /images/", http.StripPrefix("/images/", http.FileServer(http.Dir(dir))))
	}

	return s.logRequests(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
