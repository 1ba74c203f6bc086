package service

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService collects Prometheus metrics for the API gateway. All
// observer methods are safe to call on a nil receiver so wiring can stay
// optional in tests.
type MetricsService struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	cacheLatency  *prometheus.HistogramVec
	cacheWrite    prometheus.Histogram
	cacheHitRatio prometheus.Gauge
	cacheHits     uint64
	cacheMisses   uint64

	dbQueryDuration *prometheus.HistogramVec

	plannerRunDuration    prometheus.Histogram
	plannerChecked        prometheus.Counter
	plannerPruned         prometheus.Counter
	plannerValid          prometheus.Counter
	plannerRuns           prometheus.Counter
	exportTotal           *prometheus.CounterVec
	catalogImportDuration prometheus.Histogram
}

func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		cacheLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Cache read latency by outcome.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}, []string{"result"}),
		cacheWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_write_duration_seconds",
			Help:    "Cache write latency.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		cacheHitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cache_hit_ratio",
			Help: "Ratio of cache hits to total cache lookups.",
		}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		plannerRunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_run_duration_seconds",
			Help:    "End-to-end duration of a schedule planning run.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		plannerChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_combinations_checked_total",
			Help: "Section combinations examined by the generator.",
		}),
		plannerPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_combinations_pruned_total",
			Help: "Partial combinations discarded before full expansion.",
		}),
		plannerValid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_valid_combinations_total",
			Help: "Conflict-free combinations produced by the generator.",
		}),
		plannerRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_runs_total",
			Help: "Completed planning runs.",
		}),
		exportTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_exports_total",
			Help: "Schedule exports by format.",
		}, []string{"format"}),
		catalogImportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_import_duration_seconds",
			Help:    "Duration of catalog import operations.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		m.cacheLatency,
		m.cacheWrite,
		m.cacheHitRatio,
		m.dbQueryDuration,
		m.plannerRunDuration,
		m.plannerChecked,
		m.plannerPruned,
		m.plannerValid,
		m.plannerRuns,
		m.exportTotal,
		m.catalogImportDuration,
	)
	registry.MustRegister(prometheus.NewGoCollector())

	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MetricsService) ObserveHTTPRequest(route, method, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, method, status).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(route, method, status).Inc()
}

func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
		atomic.AddUint64(&m.cacheHits, 1)
	} else {
		atomic.AddUint64(&m.cacheMisses, 1)
	}
	m.cacheLatency.WithLabelValues(result).Observe(duration.Seconds())

	hits := atomic.LoadUint64(&m.cacheHits)
	misses := atomic.LoadUint64(&m.cacheMisses)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

func (m *MetricsService) ObserveDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObservePlannerRun records the generator counters and total duration of a
// single planning run.
func (m *MetricsService) ObservePlannerRun(checked, pruned, valid int, duration time.Duration) {
	if m == nil {
		return
	}
	m.plannerChecked.Add(float64(checked))
	m.plannerPruned.Add(float64(pruned))
	m.plannerValid.Add(float64(valid))
	m.plannerRuns.Inc()
	m.plannerRunDuration.Observe(duration.Seconds())
}

func (m *MetricsService) ObserveExport(format string) {
	if m == nil {
		return
	}
	m.exportTotal.WithLabelValues(format).Inc()
}

func (m *MetricsService) ObserveCatalogImport(duration time.Duration) {
	if m == nil {
		return
	}
	m.catalogImportDuration.Observe(duration.Seconds())
}
