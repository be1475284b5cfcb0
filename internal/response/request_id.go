package response

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

const requestIDHeader = "X-Request-ID"

// RequestContext tags every request with an ID, echoing a client supplied
// X-Request-ID when present, and writes one access log line per request.
// Requests that end in a server error are logged at error level.
func RequestContext(log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "http").Logger()

	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" || len(reqID) > 64 {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header(requestIDHeader, reqID)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Float64("latency_ms", float64(time.Since(start).Microseconds())/1000.0).
			Str("client_ip", c.ClientIP()).
			Msg("Request handled")
	}
}
