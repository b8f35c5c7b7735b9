// Package metrics exposes Prometheus counters for ingestion and analysis.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

var (
	// RowsProcessed counts data rows folded into an aggregator.
	RowsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sharepeak_rows_processed_total",
		Help: "Number of share price rows aggregated.",
	})

	// FilesProcessed counts files handled by directory ingestion, by status.
	FilesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sharepeak_files_processed_total",
		Help: "Number of share data files ingested, by status.",
	}, []string{"status"})

	// AnalyzeRequests counts POST /api/v1/analyze calls, by status.
	AnalyzeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sharepeak_analyze_requests_total",
		Help: "Number of in-memory analyze requests, by status.",
	}, []string{"status"})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
