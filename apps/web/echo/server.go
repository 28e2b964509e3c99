package echoweb

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/session"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool
		Conf           *core.Config
		Logger         core.Logger
		SessionStore   session.Store
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts)
	s.app.Renderer = newRenderer(conf)
	s.app.Debug = conf.Debug

	s.app.Use(s.sessionMiddleware)

	s.app.Static("/static", filepath.Join(core.Getwd(), "apps", "web", "static"))
	s.app.GET("/", func(ctx echo.Context) error {
		return ctx.Redirect(http.StatusFound, dashboardPath)
	})
	s.app.GET(unauthorizedPath, unauthorizedPage)

	registerAccountPages(s.app, s.opts)
	registerCoursePages(s.app, s.opts)
	registerAssignmentPages(s.app, s.opts)
	registerUploadPages(s.app, s.opts)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func unauthorizedPage(ctx echo.Context) error {
	return render(ctx, http.StatusForbidden, "unauthorized", echo.Map{
		"Title": "Unauthorized",
	})
}
