package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/phdstats-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestDuration     *prometheus.HistogramVec
	requestTotal        *prometheus.CounterVec
	datasetLoadDuration *prometheus.HistogramVec
	datasetLoads        *prometheus.CounterVec
	datasetRecords      prometheus.Gauge
	datasetVersion      prometheus.Gauge
	aggregationDuration *prometheus.HistogramVec

	requestCount           uint64
	requestDurationTotal   uint64
	datasetLoadCount       uint64
	datasetFailureCount    uint64
	aggregationCount       uint64
	aggregationDurationSum uint64

	now func() time.Time
}

// NewMetricsService registers core Prometheus collectors.
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

	datasetLoadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dataset_load_duration_seconds",
		Help:    "Time to fetch, derive and publish a dataset",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"source"})

	datasetLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dataset_loads_total",
		Help: "Dataset load attempts by source and outcome",
	}, []string{"source", "outcome"})

	datasetRecords := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dataset_records",
		Help: "Student records in the served dataset",
	})

	datasetVersion := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dataset_version",
		Help: "Version of the served dataset",
	})

	aggregationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aggregation_duration_seconds",
		Help:    "Time spent computing program summaries per request",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
	}, []string{"operation"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, datasetLoadDuration, datasetLoads, datasetRecords, datasetVersion, aggregationDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:            registry,
		handler:             handler,
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		datasetLoadDuration: datasetLoadDuration,
		datasetLoads:        datasetLoads,
		datasetRecords:      datasetRecords,
		datasetVersion:      datasetVersion,
		aggregationDuration: aggregationDuration,
		now:                 time.Now,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveDatasetLoad records one load attempt. A nil dataset marks a failure.
func (m *MetricsService) ObserveDatasetLoad(source string, dataset *models.Dataset, duration time.Duration) {
	if m == nil {
		return
	}
	m.datasetLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	atomic.AddUint64(&m.datasetLoadCount, 1)
	if dataset == nil {
		m.datasetLoads.WithLabelValues(source, "failure").Inc()
		atomic.AddUint64(&m.datasetFailureCount, 1)
		return
	}
	m.datasetLoads.WithLabelValues(source, "success").Inc()
	m.datasetRecords.Set(float64(len(dataset.Records)))
	m.datasetVersion.Set(float64(dataset.Version))
}

// ObserveAggregation records how long a summary computation took.
func (m *MetricsService) ObserveAggregation(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.aggregationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	atomic.AddUint64(&m.aggregationCount, 1)
	atomic.AddUint64(&m.aggregationDurationSum, uint64(duration.Nanoseconds()))
}

// Snapshot returns aggregated metrics suitable for the system endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	aggregations := atomic.LoadUint64(&m.aggregationCount)
	aggDuration := atomic.LoadUint64(&m.aggregationDurationSum)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgAggregationMicros float64
	if aggregations > 0 {
		avgAggregationMicros = float64(aggDuration) / float64(aggregations) / float64(time.Microsecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		DatasetLoads:             atomic.LoadUint64(&m.datasetLoadCount),
		DatasetLoadFailures:      atomic.LoadUint64(&m.datasetFailureCount),
		AggregationCount:         aggregations,
		AverageAggregationMicros: avgAggregationMicros,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              m.now().UTC(),
	}
}
