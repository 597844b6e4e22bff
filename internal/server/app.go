// Package server initializes and runs the main application server.
// It opens the database, applies migrations, wires the auth, user and
// task services together, and starts the HTTP server with graceful
// shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/config"
	"github.com/dmitrijs2005/taskboard/internal/server/httpapi"
	"github.com/dmitrijs2005/taskboard/internal/server/mail"
	"github.com/dmitrijs2005/taskboard/internal/server/pomodoro"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskboard/internal/server/services"
	"github.com/dmitrijs2005/taskboard/internal/server/shared/db"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	authService *services.AuthService
	userService *services.UserService
	taskService *services.TaskService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	conn, err := db.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, conn); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	mailer := mail.NewFromConfig(c, logger)
	timers := pomodoro.NewClient(c.PomodoroBaseURL)

	as := services.NewAuthService(conn, rm, mailer, c)
	us := services.NewUserService(conn, rm, c)
	ts := services.NewTaskService(conn, rm, timers, logger)

	return &App{config: c, logger: logger, authService: as, userService: us, taskService: ts}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.authService, app.userService, app.taskService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
