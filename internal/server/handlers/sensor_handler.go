package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/herdmon/herdmon/internal/domain/models"
	"github.com/herdmon/herdmon/internal/service/herd"
)

// SensorHandler serves sensor registration.
type SensorHandler struct {
	svc    herd.HerdService
	logger *zap.Logger
}

// NewSensorHandler constructs the HTTP handler adapter.
func NewSensorHandler(svc herd.HerdService, logger *zap.Logger) *SensorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SensorHandler{svc: svc, logger: logger}
}

// Create registers a sensor. The unit decides which series the sensor feeds.
func (h *SensorHandler) Create(c *gin.Context) {
	var req models.CreateSensorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sensor payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if _, err := h.svc.RegisterSensor(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Sensor added successfully"})
}
