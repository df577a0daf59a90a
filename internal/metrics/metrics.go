// Package metrics provides Prometheus metrics collection for the disperse
// service: HTTP request metrics, domain counters for inventory/resolution/
// transfer activity, and a standalone metrics HTTP server.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	ServiceHTTP         = "http"
	ServiceOrchestrator = "orchestrator"
	ServiceInventory    = "inventory"
)

type Config struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Port    string `envconfig:"METRICS_PORT" default:"9090"`
}

type Server struct {
	e      *echo.Echo
	logger *logrus.Logger
}

// StartMetricsServer registers metrics for the given services and serves
// /metrics on the configured port. Returns nil when metrics are disabled.
func StartMetricsServer(cfg Config, services []string, logger *logrus.Logger) *Server {
	if !cfg.Enabled {
		return nil
	}

	RegisterMetrics(services, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	srv := &Server{e: e, logger: logger}

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Infof("metrics server listening on %s", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Errorf("metrics server stopped: %v", err)
		}
	}()

	return srv
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
