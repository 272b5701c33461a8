package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// contextKey types avoid collisions with built-in string keys in
// request-scoped context.Context values.
type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
)

// RequestLogger generates a request_id and injects a request-scoped logger
// into the request context, then logs completion with status and duration.
func (h *Handler) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()

		logger := slog.With(
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.ClientIP(),
		)

		ctx := context.WithValue(c.Request.Context(), loggerKey, logger)
		ctx = context.WithValue(ctx, requestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logger.Info("request completed",
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// getLogger returns the request-scoped logger, falling back to the default
// logger if RequestLogger never ran for this request.
func getLogger(c *gin.Context) *slog.Logger {
	if logger, ok := c.Request.Context().Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
