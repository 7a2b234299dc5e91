// Package server wires configuration, storage, mail and the HTTP API into a
// runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/tasknest/internal/dbx"
	"github.com/dmitrijs2005/tasknest/internal/logging"
	"github.com/dmitrijs2005/tasknest/internal/server/auth"
	"github.com/dmitrijs2005/tasknest/internal/server/config"
	"github.com/dmitrijs2005/tasknest/internal/server/httpapi"
	"github.com/dmitrijs2005/tasknest/internal/server/mail"
	"github.com/dmitrijs2005/tasknest/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tasknest/internal/server/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	notifier *mail.Notifier
	server   *httpapi.Server
}

// NewApp opens the database, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := dbx.Open(ctx, "pgx", c.DatabaseDSN, dbx.DefaultPoolOptions)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey))
	mailer := mail.NewMailer(c.SMTPHost, c.SMTPPort, c.SMTPUsername, c.SMTPPassword, c.SMTPSender)
	notifier := mail.NewNotifier(mailer, c.FrontendURL, logger.With("module", "mail"))

	as := services.NewAccountService(db, rm, auth.NewBcryptHasher(auth.BcryptCost), tokens, notifier, c,
		logger.With("module", "accounts"))
	ts := services.NewTaskService(db, rm)

	srv := httpapi.NewServer(c.ListenAddr, logger, as, ts, tokens, db, httpapi.Options{
		ShutdownTimeout: c.ShutdownTimeout,
	})

	return &App{config: c, logger: logger, db: db, notifier: notifier, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or the server fails, then
// drains pending emails and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	runErr := app.server.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "http server stopped", "error", runErr)
	}

	app.shutdown(ctx)
	return runErr
}

func (app *App) shutdown(ctx context.Context) {
	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.ShutdownTimeout)
	defer cancel()

	if err := app.notifier.Wait(waitCtx); err != nil {
		app.logger.Warn(ctx, "pending emails abandoned", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
