// Package server initializes and runs the sejour service: it opens the
// database, wires the services and HTTP endpoints, and handles graceful
// shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hopitalsej/sejour/internal/logging"
	"github.com/hopitalsej/sejour/internal/server/accounts"
	"github.com/hopitalsej/sejour/internal/server/config"
	"github.com/hopitalsej/sejour/internal/server/httpapi"
	"github.com/hopitalsej/sejour/internal/server/shared/db"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager db.RepositoryManager
	httpSrv *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	accountService := accounts.NewService(manager.Accounts(), cfg)
	httpSrv := httpapi.NewServer(cfg, logger, accountService, manager.Patients())

	return &App{
		config:  cfg,
		logger:  logger,
		manager: manager,
		httpSrv: httpSrv,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	if err := app.httpSrv.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server error", "error", err)
	}

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
