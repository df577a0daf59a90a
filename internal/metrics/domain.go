package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	inventoryRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdisperse",
			Subsystem: "inventory",
			Name:      "refreshes_total",
			Help:      "Total number of inventory refreshes by status",
		},
		[]string{"status"}, // ok, error, stale, blocked
	)

	inventoryTokens = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fdisperse",
			Subsystem: "inventory",
			Name:      "tokens",
			Help:      "Number of transferable assets in the last applied inventory",
		},
	)

	resolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdisperse",
			Subsystem: "orchestrator",
			Name:      "resolutions_total",
			Help:      "Total number of recipient resolutions by result",
		},
		[]string{"result"}, // address, verified, custody, not_found, error
	)

	transfersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdisperse",
			Subsystem: "orchestrator",
			Name:      "transfers_total",
			Help:      "Total number of transfer submissions by kind and outcome",
		},
		[]string{"kind", "outcome"}, // approve/disperse, submitted/rejected/failed
	)
)

func RecordInventoryRefresh(status string, tokens int) {
	inventoryRefreshesTotal.WithLabelValues(status).Inc()
	if status == "ok" {
		inventoryTokens.Set(float64(tokens))
	}
}

func RecordResolution(result string) {
	resolutionsTotal.WithLabelValues(result).Inc()
}

func RecordTransfer(kind, outcome string) {
	transfersTotal.WithLabelValues(kind, outcome).Inc()
}
