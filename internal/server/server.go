// Package server provides the HTTP server implementation for the midivault
// API, a REST facade over a midivault.Client.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/midivault/midivault"
	"github.com/midivault/midivault/pkg/constants"
	"github.com/midivault/midivault/pkg/errors"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	client     midivault.Client
	logger     *zerolog.Logger
	config     Config
	httpServer *http.Server
	startTime  time.Time
}

// New creates a new server instance over the given client. The server
// borrows the client; closing the client remains the caller's job.
func New(client midivault.Client, cfg Config, logger *zerolog.Logger) *Server {
	return &Server{
		client:    client,
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// ListenAndServe runs the HTTP server until ctx is cancelled or the
// listener fails, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", s.httpServer.Addr).
			Str("prefix", s.config.PathPrefix).
			Msg("API server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.WrapResource("listen", "server", s.httpServer.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown gracefully stops the HTTP server and, when a snapshot path is
// configured, writes the populated part of the catalog back to it.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down API server")

	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if s.config.SnapshotPath != "" {
		if err := s.saveSnapshot(ctx); err != nil {
			s.logger.Error().
				Err(err).
				Str("path", s.config.SnapshotPath).
				Msg("Failed to persist catalog snapshot")
			errs = append(errs, err)
		}
	}

	return stderrors.Join(errs...)
}

// saveSnapshot persists whatever the catalog has populated. Forcing a
// full crawl during shutdown would be hostile, so lazy systems are
// simply dropped from the written file.
func (s *Server) saveSnapshot(ctx context.Context) error {
	snapshot, err := s.client.Catalog().PopulatedSnapshot(ctx)
	if err != nil {
		return err
	}
	if len(snapshot) == 0 {
		return nil
	}
	if err := midivault.WriteSnapshotFile(s.config.SnapshotPath, snapshot); err != nil {
		return err
	}
	s.logger.Info().
		Int("systems", len(snapshot)).
		Str("path", s.config.SnapshotPath).
		Msg("Catalog snapshot persisted")
	return nil
}
