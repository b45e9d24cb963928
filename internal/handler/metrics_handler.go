package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/vidrios-leads-api/internal/service"
	"github.com/noah-isme/vidrios-leads-api/pkg/response"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics     *service.MetricsService
	submissions *service.SubmissionService
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, submissions *service.SubmissionService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, submissions: submissions}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	response.OK(c, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary Readiness probe
// @Description Pings the submission store
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /ready [get]
func (h *MetricsHandler) Ready(c *gin.Context) {
	if err := h.submissions.Ping(c.Request.Context()); err != nil {
		_ = c.Error(err)
		response.JSON(c, http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	response.OK(c, gin.H{"status": "ready"})
}
