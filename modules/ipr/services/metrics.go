package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	operationAssemble = "assemble"
	operationPreview  = "preview"

	resultOK    = "ok"
	resultError = "error"
)

var (
	documentOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ipr",
		Subsystem: "documents",
		Name:      "operations_total",
		Help:      "Number of plan document operations broken down by operation and result.",
	}, []string{"operation", "result"})

	documentLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ipr",
		Subsystem: "documents",
		Name:      "latency_seconds",
		Help:      "Latency distribution of plan document operations.",
		Buckets: []float64{
			0.0005, 0.001, 0.002, 0.005,
			0.01, 0.02, 0.05,
			0.1, 0.2, 0.5, 1,
		},
	}, []string{"operation"})
)

func observe(operation string, start time.Time, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	documentOperations.WithLabelValues(operation, result).Inc()
	documentLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
