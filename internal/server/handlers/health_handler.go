package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/herdmon/herdmon/internal/service/herd"
)

// HealthHandler serves readiness probes backed by a store round trip.
type HealthHandler struct {
	svc    herd.HerdService
	logger *zap.Logger
}

// NewHealthHandler constructs the HTTP handler adapter.
func NewHealthHandler(svc herd.HerdService, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{svc: svc, logger: logger}
}

// Check reports whether the service and its store answer queries.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.svc.Healthy(c.Request.Context()); err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
