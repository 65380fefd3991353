// Package server exposes the snapshot and its chart series over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/naka-gawa/top-repo-dashboard/internal/domain"
)

// SnapshotBuilder fetches the snapshot served by the API.
type SnapshotBuilder interface {
	Build(ctx context.Context) (*domain.RepositorySnapshot, error)
}

// Server serves the dashboard API. It fetches the snapshot once, in the background,
// and answers 503 until that fetch has succeeded.
type Server struct {
	builder  SnapshotBuilder
	log      zerolog.Logger
	now      func() time.Time
	snapshot atomic.Pointer[domain.RepositorySnapshot]
	lastErr  atomic.Pointer[domain.FetchError]
	router   *mux.Router
}

// New creates a Server with its routes registered.
func New(builder SnapshotBuilder, logger zerolog.Logger) *Server {
	s := &Server{
		builder: builder,
		log:     logger,
		now:     time.Now,
		router:  mux.NewRouter(),
	}
	s.initializeRouter(s.router)
	return s
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Load runs the one fetch. On failure the error is logged and kept for /health;
// no retry is attempted.
func (s *Server) Load(ctx context.Context) error {
	snap, err := s.builder.Build(ctx)
	if err != nil {
		var fe *domain.FetchError
		if !errors.As(err, &fe) {
			fe = &domain.FetchError{Op: "build", Reason: domain.ReasonOf(err), Err: err}
		}
		s.lastErr.Store(fe)
		s.log.Error().Err(err).Str("reason", string(fe.Reason)).Msg("failed to fetch repository snapshot")
		return err
	}
	s.snapshot.Store(snap)
	s.log.Info().Str("repo", snap.Ref().FullName()).Msg("snapshot loaded")
	return nil
}

// Snapshot returns the loaded snapshot, or nil before a successful fetch.
func (s *Server) Snapshot() *domain.RepositorySnapshot {
	return s.snapshot.Load()
}

// Run fetches the snapshot in the background and serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		_ = s.Load(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
