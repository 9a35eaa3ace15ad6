package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/herdmon/herdmon/internal/domain/models"
	"github.com/herdmon/herdmon/internal/service/reporting"
)

// ReportHandler serves the daily herd health report.
type ReportHandler struct {
	svc    reporting.ReportService
	logger *zap.Logger
	now    func() time.Time
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc reporting.ReportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger, now: time.Now}
}

// Get serves the report. The date query parameter defaults to today.
func (h *ReportHandler) Get(c *gin.Context) {
	date := h.now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	report, err := h.svc.GenerateReport(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
