// Package server initializes and runs the application: it opens the database,
// runs migrations, wires services, and supervises the HTTP server and the
// token sweeper with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmkoval/metools/internal/logging"
	"github.com/dmkoval/metools/internal/server/config"
	"github.com/dmkoval/metools/internal/server/httpapi"
	"github.com/dmkoval/metools/internal/server/repositories/repomanager"
	"github.com/dmkoval/metools/internal/server/services"
	"github.com/dmkoval/metools/internal/server/sweeper"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	userService  *services.UserService
	taskService  *services.TaskService
	verification *services.VerificationService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	if cfg.AutoMigrate {
		if err := rm.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("db migration error: %w", err)
		}
	}

	var notifier services.VerificationNotifier
	if cfg.SMTPHost != "" {
		n, err := services.NewSMTPNotifier(cfg)
		if err != nil {
			return nil, fmt.Errorf("mailer init error: %w", err)
		}
		notifier = n
	} else {
		notifier = services.NewLogNotifier(logger, cfg.ServiceURL)
	}

	vs := services.NewVerificationService(db, rm, cfg)
	us := services.NewUserService(db, rm, vs, notifier, logger)
	ts := services.NewTaskService(db, rm)

	return &App{
		config:       cfg,
		logger:       logger,
		db:           db,
		userService:  us,
		taskService:  ts,
		verification: vs,
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config, app.logger, app.userService, app.taskService, app.verification)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.New(app.verification, app.config.SweepInterval, app.logger).Run(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err.Error())
	}
}
