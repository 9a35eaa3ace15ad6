package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/herdmon/herdmon/internal/domain/models"
	"github.com/herdmon/herdmon/internal/service/herd"
)

// CowHandler serves cow registration and lookup endpoints.
type CowHandler struct {
	svc    herd.HerdService
	logger *zap.Logger
}

// NewCowHandler constructs the HTTP handler adapter.
func NewCowHandler(svc herd.HerdService, logger *zap.Logger) *CowHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CowHandler{svc: svc, logger: logger}
}

// Create registers a cow whose id travels in the request body.
func (h *CowHandler) Create(c *gin.Context) {
	var req models.CreateCowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid cow payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if _, err := h.svc.RegisterCow(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Cow added successfully"})
}

// CreateWithID registers a cow addressed by the path id. The path id wins
// over any id carried in the body.
func (h *CowHandler) CreateWithID(c *gin.Context) {
	var req models.CreateCowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid cow payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.ID = c.Param("id")

	if _, err := h.svc.RegisterCow(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Cow created successfully"})
}

// List returns every registered cow. An empty herd is a 404, matching the
// API contract rather than returning an empty array.
func (h *CowHandler) List(c *gin.Context) {
	cows, err := h.svc.ListCows(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if len(cows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cows found"})
		return
	}

	c.JSON(http.StatusOK, cows)
}

// Details returns one cow with its whole-history aggregates.
func (h *CowHandler) Details(c *gin.Context) {
	details, err := h.svc.CowDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// Measurements returns a cow's newest readings grouped by kind.
func (h *CowHandler) Measurements(c *gin.Context) {
	recent, err := h.svc.RecentMeasurements(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, recent)
}
