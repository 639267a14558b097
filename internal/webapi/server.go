package webapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/houghtp/terra-automation-platform-sub005/internal/automation"
	"github.com/houghtp/terra-automation-platform-sub005/internal/logger"
	"github.com/houghtp/terra-automation-platform-sub005/internal/pipeline"
	"github.com/houghtp/terra-automation-platform-sub005/internal/store"
)

// Server exposes the HTTP API for plans, generated content and the
// automation catalog.
type Server struct {
	echo           *echo.Echo
	engine         *pipeline.Engine
	store          *store.Store
	registry       *automation.Registry
	processTimeout time.Duration
	startedAt      time.Time
}

type Options struct {
	Engine   *pipeline.Engine
	Store    *store.Store
	Registry *automation.Registry
	// ProcessTimeout bounds a synchronous processing request. Zero means
	// no bound beyond the request context.
	ProcessTimeout time.Duration
}

func NewServer(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:           e,
		engine:         opts.Engine,
		store:          opts.Store,
		registry:       opts.Registry,
		processTimeout: opts.ProcessTimeout,
		startedAt:      time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.echo.Group("/api")

	api.GET("/status", s.handleStatus)

	api.POST("/plans", s.handleSubmitPlan)
	api.GET("/plans", s.handleListPlans)
	api.GET("/plans/:id", s.handleGetPlan)
	api.POST("/plans/:id/process", s.handleProcessPlan)
	api.POST("/plans/:id/reopen", s.handleReopenPlan)
	api.GET("/plans/:id/validation", s.handlePlanValidation)
	api.GET("/plans/:id/progress", s.handleProgress)

	api.GET("/content/:id", s.handleGetContent)
	api.POST("/content/:id/state", s.handleContentState)

	api.GET("/automation/templates", s.handleListTemplates)
	api.GET("/automation/templates/:id", s.handleGetTemplate)
	api.POST("/automation/instances", s.handleCreateInstance)
	api.GET("/automation/instances", s.handleListInstances)
	api.GET("/automation/instances/:id", s.handleGetInstance)
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logger.Info("http api listening on %s", addr)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying mux for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
