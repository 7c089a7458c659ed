package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/attendance"
	"github.com/trezcool/carnet/core/cahier"
	"github.com/trezcool/carnet/core/devoir"
	"github.com/trezcool/carnet/core/journal"
	"github.com/trezcool/carnet/core/material"
	"github.com/trezcool/carnet/core/overview"
	"github.com/trezcool/carnet/core/rapport"
	"github.com/trezcool/carnet/core/settings"
	"github.com/trezcool/carnet/core/teacher"
)

type (
	// Services are the record services exposed over HTTP.
	Services struct {
		Teacher    *teacher.Service
		Attendance *attendance.Service
		Journal    *journal.Service
		Cahier     *cahier.Service
		Material   *material.Service
		Rapport    *rapport.Service
		Devoir     *devoir.Service
		Settings   *settings.Service
		Overview   *overview.Service
	}

	Deps struct {
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool
		Services
	}

	Server struct {
		app      *echo.Echo
		addr     string
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(conf *core.Config, deps *Deps) *Server {
	s := &Server{
		app:      echo.New(),
		addr:     conf.Server.Host,
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup(conf, deps)
	return s
}

func (s *Server) setup(conf *core.Config, deps *Deps) {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(deps.Logger, deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerTeacherAPI(v1, deps.Teacher, deps.Attendance)
	registerAttendanceAPI(v1, deps.Attendance)
	registerJournalAPI(v1, deps.Journal)
	registerCahierAPI(v1, deps.Cahier)
	registerMaterialAPI(v1, deps.Material)
	registerRapportAPI(v1, deps.Rapport)
	registerDevoirAPI(v1, deps.Devoir)
	registerSettingsAPI(v1, deps.Settings)
	registerOverviewAPI(v1, deps.Overview)
}

// Start serves until the server is shut down; any other failure is sent on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

// ShutdownSignal is notified on SIGINT, SIGTERM and on unrecoverable handler errors.
func (s *Server) ShutdownSignal() <-chan os.Signal {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Carnet API!")
}
