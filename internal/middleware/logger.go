// Package middleware provides HTTP middleware functions.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// Logger returns a middleware that writes one access log entry per request.
// Requests to quietPaths (probes) are logged at debug level when they succeed.
func Logger(logger *zap.SugaredLogger, quietPaths ...string) gin.HandlerFunc {
	quiet := make(map[string]struct{}, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []interface{}{
			"request_id", requestID,
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if c.Request.URL.RawQuery != "" {
			fields = append(fields, "query", redactQuery(c))
		}
		if userID := UserID(c); userID != "" {
			fields = append(fields, "user_id", userID)
		}
		if size := c.Writer.Size(); size > 0 {
			fields = append(fields, "size", size)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		_, isQuiet := quiet[path]
		switch {
		case status >= 500:
			logger.Errorw("HTTP request", fields...)
		case status >= 400:
			logger.Warnw("HTTP request", fields...)
		case isQuiet:
			logger.Debugw("HTTP request", fields...)
		default:
			logger.Infow("HTTP request", fields...)
		}
	}
}

// RequestID returns the correlation id assigned by Logger, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// redactQuery drops the stream access token from logged query strings.
func redactQuery(c *gin.Context) string {
	query := c.Request.URL.Query()
	if query.Has(accessTokenQuery) {
		query.Set(accessTokenQuery, "REDACTED")
	}
	return query.Encode()
}
