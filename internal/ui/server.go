// Package ui provides the histsync web server.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/histsync/internal/coordinator"
	"github.com/leapstack-labs/histsync/internal/ui/features/common"
	"github.com/leapstack-labs/histsync/internal/ui/features/home/components"
	"github.com/leapstack-labs/histsync/internal/ui/notifier"
	"github.com/leapstack-labs/histsync/internal/ui/render"
	"github.com/leapstack-labs/histsync/internal/ui/router"
)

// watchDebounce coalesces bursts of writes to the state database.
const watchDebounce = 200 * time.Millisecond

// Server is the main UI server.
type Server struct {
	coord        *coordinator.Coordinator
	service      common.HistoryService
	sessionStore *sessions.CookieStore
	catalog      *render.Catalog
	browsers     []string
	minInterval  time.Duration
	port         int
	watch        bool
	dev          bool
	statePath    string
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	// Service serves the JSON API and the history page.
	Service common.HistoryService
	// Backend runs page actions; nil means Service.
	Backend coordinator.Backend

	Catalog           *render.Catalog
	Labels            render.Labels
	Browsers          []string
	ActionMinInterval time.Duration
	Port              int
	Watch             bool
	Dev               bool
	SessionSecret     string
	StatePath         string
	Logger            *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = render.DefaultCatalog()
	}
	backend := cfg.Backend
	if backend == nil {
		backend = cfg.Service
	}

	notify := notifier.New()
	coord := coordinator.New(coordinator.Config{
		Backend:  backend,
		Results:  components.NewResultsRenderer(catalog),
		Stats:    components.NewStatsRenderer(catalog),
		Labels:   cfg.Labels,
		Notifier: notify,
		Logger:   logger,
	})

	return &Server{
		coord:        coord,
		service:      cfg.Service,
		sessionStore: sessionStore,
		catalog:      catalog,
		browsers:     cfg.Browsers,
		minInterval:  cfg.ActionMinInterval,
		port:         cfg.Port,
		watch:        cfg.Watch,
		dev:          cfg.Dev,
		statePath:    cfg.StatePath,
		logger:       logger,
		notifier:     notify,
	}
}

// Handler builds the routed HTTP handler.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	err := router.SetupRoutes(r, router.Deps{
		Coordinator:       s.coord,
		Service:           s.service,
		SessionStore:      s.sessionStore,
		Notifier:          s.notifier,
		Catalog:           s.catalog,
		Browsers:          s.browsers,
		ActionMinInterval: s.minInterval,
		Logger:            s.logger,
		IsDev:             s.dev,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.watchable() {
		eg.Go(func() error {
			return s.watchState(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev returns true if running in development mode.
func (s *Server) IsDev() bool {
	return s.dev
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

func (s *Server) watchable() bool {
	return s.statePath != "" && !strings.HasPrefix(s.statePath, ":memory:")
}

// watchState broadcasts to open pages when the state database changes, so a
// harvest run from the CLI shows up without a reload.
func (s *Server) watchState(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(s.statePath)
	if err := watcher.Add(dir); err != nil {
		s.logger.Error("failed to watch state directory", "dir", dir, "error", err)
		// Don't fail - continue without watching
	}

	base := filepath.Base(s.statePath)
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isStateFile(filepath.Base(event.Name), base) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				s.logger.Debug("state database changed", "file", event.Name)
				s.notifier.Broadcast()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// isStateFile matches the database file and its WAL companion.
func isStateFile(name, base string) bool {
	return name == base || name == base+"-wal"
}
