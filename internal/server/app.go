// Package server wires and runs the Greed reference backend: storage,
// user service and the HTTP API, with graceful shutdown on signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/greed/internal/logging"
	"github.com/dmitrijs2005/greed/internal/server/config"
	"github.com/dmitrijs2005/greed/internal/server/httpserver"
	"github.com/dmitrijs2005/greed/internal/server/services"
	"github.com/dmitrijs2005/greed/internal/server/shared/db"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       db.RepositoryManager
	userService *services.UserService
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := db.NewRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured, users are kept in memory")
	}

	us := services.NewUserService(repos.Users(), services.NewIdentityVerifier(c), c, logger)

	return &App{config: c, logger: logger, repos: repos, userService: us}, nil
}

// Run serves the API until ctx is cancelled or a termination signal
// arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(context.Background(), "error closing storage", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	s := httpserver.NewHTTPServer(app.config.ListenAddr, app.logger, app.userService, app.repos.Ping)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "server error", "error", err)
		return err
	}

	app.logger.Info(context.Background(), "App stopped")
	return nil
}
