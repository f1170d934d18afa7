package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/yanqian/prayer-api/internal/domain/automation"
	"github.com/yanqian/prayer-api/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle and the optional relay scheduler.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *http.Server
	scheduler *automation.Scheduler
}

// NewApp is used by Wire to build the runnable app. scheduler may be nil.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, scheduler *automation.Scheduler) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, scheduler: scheduler}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	var wg sync.WaitGroup
	schedCtx, stopScheduler := context.WithCancel(ctx)
	defer func() {
		stopScheduler()
		wg.Wait()
	}()
	if a.scheduler != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.scheduler.Run(schedCtx); err != nil {
				a.logger.Error("automation scheduler stopped with error", "error", err)
			}
		}()
	}

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address, "base_path", a.cfg.HTTP.BasePath)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
