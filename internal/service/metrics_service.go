package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation on a private registry.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	syncRuns        *prometheus.CounterVec
	syncDuration    prometheus.Histogram
	collectionSize  *prometheus.GaugeVec
	openAlerts      prometheus.Gauge
	remotePushes    *prometheus.CounterVec
	messages        *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
}

// NewMetricsService registers the dashboard collectors.
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

	syncRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_sync_runs_total",
		Help: "Spreadsheet synchronizations by outcome",
	}, []string{"outcome"})

	syncDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_sync_duration_seconds",
		Help:    "Duration of spreadsheet synchronizations",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	collectionSize := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dashboard_collection_size",
		Help: "Number of records held per collection",
	}, []string{"collection"})

	openAlerts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_open_churn_alerts",
		Help: "Unresolved churn alerts across all units",
	})

	remotePushes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_remote_pushes_total",
		Help: "Writes pushed to the spreadsheet by action and outcome",
	}, []string{"action", "outcome"})

	messages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_messages_total",
		Help: "Outreach messages by delivery mode and outcome",
	}, []string{"mode", "outcome"})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_store_operation_seconds",
		Help:    "Latency of snapshot store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, syncRuns, syncDuration, collectionSize, openAlerts, remotePushes, messages, storeDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		syncRuns:        syncRuns,
		syncDuration:    syncDuration,
		collectionSize:  collectionSize,
		openAlerts:      openAlerts,
		remotePushes:    remotePushes,
		messages:        messages,
		storeDuration:   storeDuration,
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

// Registry exposes the underlying registry for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordSync counts a sync run and its duration.
func (m *MetricsService) RecordSync(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.syncRuns.WithLabelValues(outcome).Inc()
	m.syncDuration.Observe(duration.Seconds())
}

// SetCollectionSize publishes the size of a state collection.
func (m *MetricsService) SetCollectionSize(collection string, size int) {
	if m == nil {
		return
	}
	m.collectionSize.WithLabelValues(collection).Set(float64(size))
}

// SetOpenAlerts publishes the global unresolved churn alert count.
func (m *MetricsService) SetOpenAlerts(n int) {
	if m == nil {
		return
	}
	m.openAlerts.Set(float64(n))
}

// RecordPush counts a spreadsheet write attempt.
func (m *MetricsService) RecordPush(action, outcome string) {
	if m == nil {
		return
	}
	m.remotePushes.WithLabelValues(action, outcome).Inc()
}

// RecordMessage counts an outreach message.
func (m *MetricsService) RecordMessage(mode, outcome string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(mode, outcome).Inc()
}

// ObservePushBacklog publishes the number of undelivered spreadsheet pushes.
// Only the first source registered on a registry is kept.
func (m *MetricsService) ObservePushBacklog(pending func() int64) {
	if m == nil || pending == nil {
		return
	}
	backlog := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dashboard_remote_push_pending",
		Help: "Spreadsheet pushes queued or waiting for a retry",
	}, func() float64 {
		return float64(pending())
	})
	_ = m.registry.Register(backlog)
}

// ObserveStoreOperation records snapshot store latency. outcome is hit, miss, ok or error.
func (m *MetricsService) ObserveStoreOperation(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}
