package middleware

import (
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger attaches a request-scoped logger to the request context.
// The logger carries the request id and, when the request is traced, the
// trace id, so anything downstream can log correlated lines via
// logger.FromContext. Must run after RequestID.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, reqLogger := logger.WithRequestID(c.Request.Context(), base, c.GetString(RequestIDKey))
		if traceID := telemetry.GetTraceID(ctx); traceID != "" {
			reqLogger = reqLogger.With(zap.String("trace_id", traceID))
			ctx = logger.WithContext(ctx, reqLogger)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
