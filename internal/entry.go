// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/brainbrew/internal/api"
	"github.com/starford/brainbrew/internal/index"
	"github.com/starford/brainbrew/internal/kv"
	"github.com/starford/brainbrew/internal/mcpserver"
	"github.com/starford/brainbrew/internal/noteservice"
	"github.com/starford/brainbrew/internal/planner"
	"github.com/starford/brainbrew/internal/sse"
	"github.com/starford/brainbrew/internal/storage"
)

// services is everything the transports share.
type services struct {
	store   storage.Provider
	db      *index.DB
	docs    kv.Store
	notes   *noteservice.Service
	planner *planner.Service
}

func (s *services) Close() {
	if s.docs != nil {
		_ = s.docs.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

// openStore returns the document store selected by cfg.
func openStore(cfg StoreConfig, logger *slog.Logger) (kv.Store, error) {
	switch cfg.Driver {
	case StoreDriverRedis:
		return kv.OpenRedis(kv.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case StoreDriverSQLite, "":
		return kv.OpenSQLite(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// openServices opens the vault, the note index and the document store, and
// brings the index up to date with the vault.
func openServices(cfg *Config, logger *slog.Logger, opts ...planner.Option) (*services, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	svc := &services{store: store}
	svc.db, err = index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}
	svc.docs, err = openStore(cfg.Store, logger)
	if err != nil {
		svc.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}

	stats, err := index.Sync(svc.db, store, logger)
	if err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	} else {
		logger.Info("Vault indexed",
			slog.Int("indexed", stats.Indexed),
			slog.Int("removed", stats.Removed),
			slog.Int("failed", stats.Failed))
	}

	svc.notes = noteservice.NewService(store, svc.db)
	svc.planner = planner.NewService(svc.docs, opts...)
	return svc, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// newHTTPHandler builds the root router: health checks outside /api and the
// API itself mounted under /api.
func newHTTPHandler(cfg *Config, svc *services, events http.Handler) http.Handler {
	apiRouter := api.NewRouter(svc.notes, svc.planner, cfg.Auth.AuthEnabled(), cfg.Auth.Token, events)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := svc.planner.ListSubjects(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)
	return r
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(os.Stdout, opts...)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker; planner writes are published through it.
	broker := sse.NewBroker(cfg.Events.DashboardThrottle)
	defer broker.Close()

	svc, err := openServices(cfg, logger, planner.WithNotifier(broker))
	if err != nil {
		return err
	}
	defer svc.Close()

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newHTTPHandler(cfg, svc, broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher with SSE callback.
	watcher := index.NewWatcher(svc.db, svc.store, cfg.Vault.Path, logger, broker.PublishNoteEvent)
	g.Go(func() error {
		if err := watcher.Run(gCtx); err != nil {
			logger.Warn("vault watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the errgroup so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdin/stdout. Logs go to stderr so they do
// not corrupt the protocol stream.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(os.Stderr, opts...)
	if err != nil {
		return err
	}
	logger := app.logger()

	svc, err := openServices(app.config, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	return mcpserver.New(svc.notes, svc.planner).ServeStdio()
}
