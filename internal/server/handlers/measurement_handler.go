package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/herdmon/herdmon/internal/domain/models"
	"github.com/herdmon/herdmon/internal/service/herd"
)

// MeasurementHandler serves measurement ingestion.
type MeasurementHandler struct {
	svc    herd.HerdService
	logger *zap.Logger
}

// NewMeasurementHandler constructs the HTTP handler adapter.
func NewMeasurementHandler(svc herd.HerdService, logger *zap.Logger) *MeasurementHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeasurementHandler{svc: svc, logger: logger}
}

// Create ingests one sensor reading.
func (h *MeasurementHandler) Create(c *gin.Context) {
	var req models.CreateMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid measurement payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if _, err := h.svc.RecordMeasurement(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Measurement added successfully"})
}
