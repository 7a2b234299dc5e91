// Package httpapi exposes the account and task services over HTTP using echo.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tasknest/internal/logging"
	"github.com/dmitrijs2005/tasknest/internal/server/auth"
	"github.com/dmitrijs2005/tasknest/internal/server/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type AccountService interface {
	SignUp(ctx context.Context, req models.SignUpRequest) error
	Confirm(ctx context.Context, token string) (*models.Profile, error)
	SignIn(ctx context.Context, req models.SignInRequest) (*models.Profile, error)
	Forget(ctx context.Context, email string) error
	Reset(ctx context.Context, token, password string) error
	SendConfirm(ctx context.Context, token string) error
}

type TaskService interface {
	List(ctx context.Context, identity string, page int, sort models.TaskSort) (*models.TaskPage, error)
	Search(ctx context.Context, identity string, q models.TaskSearch) (*models.TaskPage, error)
	Get(ctx context.Context, identity, id string) (*models.Task, error)
	Create(ctx context.Context, identity string, in models.TaskInput) (*models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, id string, in models.CommentInput) (*models.Task, error)
	DeleteComment(ctx context.Context, taskID, commentID string) (*models.Task, error)
}

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options tunes the server. Zero values fall back to defaults.
type Options struct {
	BodyLimit       string
	ShutdownTimeout time.Duration
}

type Server struct {
	address  string
	echo     *echo.Echo
	logger   logging.Logger
	accounts AccountService
	tasks    TaskService
	tokens   TokenVerifier
	db       Pinger
	opts     Options
}

func NewServer(address string, l logging.Logger, as AccountService, ts TaskService,
	tokens TokenVerifier, db Pinger, opts Options) *Server {
	if opts.BodyLimit == "" {
		opts.BodyLimit = "30M"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		accounts: as,
		tasks:    ts,
		tokens:   tokens,
		db:       db,
		opts:     opts,
	}
	s.echo = s.newEcho()
	return s
}

func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(s.requestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(s.opts.BodyLimit))

	s.registerRoutes(e)
	return e
}

// Handler returns the routed echo instance.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
