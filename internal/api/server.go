package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Siddesh7/f-disperse/internal/disperse"
	"github.com/Siddesh7/f-disperse/internal/metrics"
)

type Config struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// Server is the thin HTTP layer the browser UI drives. All state lives in
// the orchestrator; handlers translate requests and map error classes to
// status codes.
type Server struct {
	echo   *echo.Echo
	logger *logrus.Entry
	orch   *disperse.Orchestrator
	port   int
}

func NewServer(cfg Config, orch *disperse.Orchestrator, logger *logrus.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(metrics.HTTPMiddleware())

	s := &Server{
		echo:   e,
		logger: logger.WithField("pkg", "api.Server"),
		orch:   orch,
		port:   cfg.Port,
	}

	e.GET("/healthz", s.health)
	e.GET("/api/tokens", s.listTokens)
	e.GET("/api/session", s.getSession)
	e.POST("/api/recipients", s.addRecipient)
	e.DELETE("/api/recipients/:index", s.removeRecipient)
	e.PUT("/api/allocation", s.setAllocation)
	e.POST("/api/token", s.selectToken)
	e.POST("/api/approve", s.approve)
	e.POST("/api/disperse", s.disperse)
	e.DELETE("/api/feedback", s.dismissFeedback)

	return s
}

func (s *Server) Start() error {
	s.logger.WithField("port", s.port).Info("starting API server")
	err := s.echo.Start(fmt.Sprintf(":%d", s.port))
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
