package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// RegisterMetrics registers metrics for the specified services
func RegisterMetrics(services []string, logger *logrus.Logger) {
	// Always register Go and process metrics
	registerIfNotExists(collectors.NewGoCollector(), "go_collector", logger)
	registerIfNotExists(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), "process_collector", logger)

	for _, service := range services {
		switch service {
		case ServiceHTTP:
			registerHTTPMetrics(logger)
		case ServiceOrchestrator:
			registerOrchestratorMetrics(logger)
		case ServiceInventory:
			registerInventoryMetrics(logger)
		default:
			logger.Warnf("Unknown service type for metrics registration: %s", service)
		}
	}
}

func registerIfNotExists(collector prometheus.Collector, name string, logger *logrus.Logger) {
	if err := prometheus.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return
		}
		logger.Warnf("failed to register %s: %v", name, err)
	}
}

func registerHTTPMetrics(logger *logrus.Logger) {
	registerIfNotExists(httpRequestsTotal, "http_requests_total", logger)
	registerIfNotExists(httpRequestDuration, "http_request_duration_seconds", logger)
	registerIfNotExists(httpErrorsTotal, "http_errors_total", logger)
}

func registerOrchestratorMetrics(logger *logrus.Logger) {
	registerIfNotExists(resolutionsTotal, "resolutions_total", logger)
	registerIfNotExists(transfersTotal, "transfers_total", logger)
}

func registerInventoryMetrics(logger *logrus.Logger) {
	registerIfNotExists(inventoryRefreshesTotal, "inventory_refreshes_total", logger)
	registerIfNotExists(inventoryTokens, "inventory_tokens", logger)
}
