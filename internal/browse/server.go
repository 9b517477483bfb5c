// Package browse serves the briefing corpus over HTTP: JSON endpoints for
// reports and diagnostics plus HTML rendering of the Markdown itself.
package browse

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/dia3-labs/brief/internal/engine"
)

// Server is the corpus browser.
type Server struct {
	engine *engine.Engine
	port   int
	watch  bool
	logger *slog.Logger

	mu     sync.RWMutex
	latest *engine.LintResult
}

// Config holds configuration for the browser.
type Config struct {
	Engine *engine.Engine
	Port   int
	Watch  bool
	Logger *slog.Logger
}

// NewServer creates a browser over an engine that has already discovered
// its corpus.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		engine: cfg.Engine,
		port:   cfg.Port,
		watch:  cfg.Watch,
		logger: logger,
	}
}

// Serve starts the browser and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting corpus browser", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	// Seed the diagnostics cache so the first request does not lint.
	if result, err := s.engine.LintAll(ctx); err == nil {
		s.setLatest(result)
	} else {
		s.logger.Warn("initial lint failed", "error", err)
	}

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.routes(r)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.engine.Watch(egctx, func(result *engine.LintResult) {
				s.setLatest(result)
				s.reindex()
			})
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down corpus browser")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) setLatest(result *engine.LintResult) {
	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()
}

func (s *Server) latestResult() *engine.LintResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// reindex refreshes the index store after a corpus change. Without a
// store this is a no-op.
func (s *Server) reindex() {
	if s.engine.Store() == nil {
		return
	}
	if _, err := s.engine.Index(); err != nil {
		s.logger.Error("reindex failed", "error", err)
	}
}
