package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirinyoku/railgo/internal/cache"
	"github.com/kirinyoku/railgo/internal/config"
	"github.com/kirinyoku/railgo/internal/jsonfile"
	"github.com/kirinyoku/railgo/internal/service"
	"github.com/kirinyoku/railgo/internal/session"
	"github.com/kirinyoku/railgo/internal/state"
	httpgin "github.com/kirinyoku/railgo/internal/transport/http/gin"
	"github.com/kirinyoku/railgo/internal/uow"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize persistence and load the state snapshot
	store, err := jsonfile.New(jsonfile.Config{Path: cfg.Storage.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	data, err := store.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load state snapshot: %w", err)
	}

	if len(data.Trains) == 0 {
		data.Trains = state.DefaultCatalog()
		if err := store.Save(context.Background(), data); err != nil {
			return nil, fmt.Errorf("failed to persist seed catalog: %w", err)
		}
		logger.Info("seeded default train catalog", "trains", len(data.Trains))
	}

	st := state.New(data)
	u := uow.New(st, store)

	// Initialize sessions and the read cache
	sessions := session.NewManager(cfg.Session.TTL)
	c := cache.New()

	// Initialize services
	services := service.NewServices(st, u, c, sessions, service.Config{})

	// Initialize Gin router
	router := httpgin.NewRouter(services, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
