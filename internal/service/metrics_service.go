package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/syllabus-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	importRuns      prometheus.Counter
	importPrograms  prometheus.Gauge
	importSubjects  prometheus.Gauge
	importSkipped   prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Catalog cache lookups served from redis",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Catalog cache lookups that fell through to the store",
	})

	importRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_import_runs_total",
		Help: "Completed catalog import runs",
	})

	importPrograms := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_programs",
		Help: "Programs loaded by the latest catalog import",
	})

	importSubjects := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_disciplines",
		Help: "Disciplines loaded by the latest catalog import",
	})

	importSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_import_skipped_rows_total",
		Help: "Catalog source rows skipped because of errors or unresolved programs",
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses, importRuns, importPrograms, importSubjects, importSkipped)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		importRuns:      importRuns,
		importPrograms:  importPrograms,
		importSubjects:  importSubjects,
		importSkipped:   importSkipped,
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one handled request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, fmt.Sprintf("%d", status)}
	s.requestTotal.WithLabelValues(labels...).Inc()
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
}

// ObserveCacheLookup records a catalog cache hit or miss.
func (s *MetricsService) ObserveCacheLookup(hit bool) {
	if hit {
		s.cacheHits.Inc()
		return
	}
	s.cacheMisses.Inc()
}

// ObserveCatalogImport records the outcome of an import run.
func (s *MetricsService) ObserveCatalogImport(stats models.ImportStats) {
	s.importRuns.Inc()
	s.importPrograms.Set(float64(stats.Programs))
	s.importSubjects.Set(float64(stats.Disciplines))
	s.importSkipped.Add(float64(stats.SkippedRows + stats.UnresolvedNames))
}
