package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"space-traveling/cmd/internal/trace"
	"space-traveling/logger"
)

const (
	headerRequestID = "X-Request-Id"
	headerSpanID    = "X-Span-Id"
)

// RequestTrace tags the request with an X-Request-Id (kept when the caller sent
// one) and span 0, echoes both on the response and logs the request once done.
// Outbound calls through httpclient continue the span sequence.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}
		ctx := trace.WithRequestAndSpan(c.Request.Context(), requestID, 0)
		c.Request = c.Request.WithContext(ctx)

		span := trace.CurrentSpanID(ctx)
		for _, h := range []http.Header{c.Request.Header, c.Writer.Header()} {
			h.Set(headerRequestID, requestID)
			h.Set(headerSpanID, span)
		}

		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields{
			"method":       c.Request.Method,
			"path":         c.Request.URL.Path,
			"query_params": redactQuery(c.Request.URL.Query()),
			"status":       status,
			"duration":     time.Since(start).String(),
			"request_id":   requestID,
			"span_id":      trace.CurrentSpanID(ctx),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.ErrorWithFields("completed request", fields)
		case status >= http.StatusBadRequest:
			logger.WarnWithFields("completed request", fields)
		case strings.HasPrefix(c.Request.URL.Path, "/static/"):
			logger.DebugWithFields("completed request", fields)
		default:
			logger.InfoWithFields("completed request", fields)
		}
	}
}

// redactQuery hides cursors, which can be long store URLs carrying tokens.
func redactQuery(q url.Values) map[string][]string {
	out := make(map[string][]string, len(q))
	for k, v := range q {
		if k == "cursor" {
			v = []string{"<set>"}
		}
		out[k] = v
	}
	return out
}
