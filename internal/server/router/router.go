package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herdmon/herdmon/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(h handlers.Set, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Welcome to the herd monitor API"})
	})
	r.GET("/healthz", h.Health.Check)

	r.GET("/cows", h.Cows.List)
	r.POST("/cows", h.Cows.Create)
	r.GET("/cows/:id", h.Cows.Details)
	r.POST("/cows/:id", h.Cows.CreateWithID)
	r.GET("/cows/:id/measurements", h.Cows.Measurements)

	r.POST("/sensors", h.Sensors.Create)
	r.POST("/measurements", h.Measurements.Create)
	r.GET("/report", h.Reports.Get)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

// requestIDMiddleware tags every request with an id, honoring one supplied by
// the caller.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")))
	}
}
