// File: middleware/request_log.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zerosync-web/logger"
)

const requestIDKey contextKey = "requestID"

// RequestIDHeader carries the request ID in and out.
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an ID and logs its outcome.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(string(requestIDKey), requestID)

		c.Next()

		status := c.Writer.Status()
		line := "[RequestLogger] id=%s %s %s status=%d latency=%v"
		switch {
		case status >= 500:
			logger.Error.Printf(line, requestID, c.Request.Method, c.Request.URL.Path, status, time.Since(start))
		case status >= 400:
			logger.Warn.Printf(line, requestID, c.Request.Method, c.Request.URL.Path, status, time.Since(start))
		default:
			logger.Info.Printf(line, requestID, c.Request.Method, c.Request.URL.Path, status, time.Since(start))
		}
	}
}

// RequestID returns the ID assigned by RequestLogger.
func RequestID(c *gin.Context) string {
	return c.GetString(string(requestIDKey))
}
