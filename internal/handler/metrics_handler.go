package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sports-school-ops/internal/models"
)

type metricsExporter interface {
	Handler() http.Handler
}

type readinessSource interface {
	Status() models.SyncStatus
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics metricsExporter
	sync    readinessSource
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics metricsExporter, sync readinessSource) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, sync: sync}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the service is serving data. Cached data counts as
// ready even before the first sync succeeds.
func (h *MetricsHandler) Ready(c *gin.Context) {
	payload := gin.H{"status": "ready"}
	if h.sync != nil {
		status := h.sync.Status()
		payload["sync_running"] = status.Running
		payload["last_sync_at"] = status.LastSuccessAt
		if status.LastError != "" {
			payload["last_sync_error"] = status.LastError
		}
	}
	c.JSON(http.StatusOK, payload)
}
