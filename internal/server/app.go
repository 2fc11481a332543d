// Package server initializes and runs the DayKeeper backend. It wires the
// database-backed repositories, the account and entry services and the HTTP
// API, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avolkovs/daykeeper/internal/logging"
	"github.com/avolkovs/daykeeper/internal/server/config"
	"github.com/avolkovs/daykeeper/internal/server/entries"
	"github.com/avolkovs/daykeeper/internal/server/httpapi"
	"github.com/avolkovs/daykeeper/internal/server/mail"
	"github.com/avolkovs/daykeeper/internal/server/shared/db"
	"github.com/avolkovs/daykeeper/internal/server/users"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	userService  *users.Service
	entryService *entries.Service
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	m, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	mailer := mail.NewLogSender(logger)

	us := users.NewService(m.Conn(), m, mailer, c, logger)
	es := entries.NewService(m.Entries(m.Conn()), entries.NewHub(), logger)

	return &App{config: c, logger: logger, userService: us, entryService: es}, nil
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

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.userService, app.entryService)

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
