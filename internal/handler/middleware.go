package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/auth"
)

// WriteAuditMiddleware logs every mutating API call with its tenant, status
// and duration. Reads stay quiet.
func WriteAuditMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		method := strings.ToUpper(c.Request.Method)
		if !strings.HasPrefix(path, "/api/") && !strings.HasPrefix(path, "/webhooks/") {
			return
		}
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return
		}

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		}
		if tenant := auth.TenantID(c); tenant != "" {
			fields = append(fields, zap.String("tenant", tenant))
		}
		switch {
		case c.Writer.Status() >= 500:
			logger.Error("api write", fields...)
		case c.Writer.Status() >= 400:
			logger.Warn("api write", fields...)
		default:
			logger.Info("api write", fields...)
		}
	}
}
