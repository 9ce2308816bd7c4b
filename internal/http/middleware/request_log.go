package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tgdash-backend/internal/platform/ctxutil"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

// reportQueryKeys are the dashboard parameters worth seeing next to a slow or
// failed report request.
var reportQueryKeys = []string{"persona", "date", "days", "chat_id", "thread_id"}

// RequestLogger writes one line per request. Report routes also carry the
// report kind and the dashboard filters so a failed build can be replayed.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", routeOf(c),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = appendNonEmpty(fields, "trace_id", td.TraceID)
			fields = appendNonEmpty(fields, "request_id", td.RequestID)
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			fields = appendNonEmpty(fields, "kind", c.Param("kind"))
			for _, k := range reportQueryKeys {
				fields = appendNonEmpty(fields, k, c.Query(k))
			}
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

func appendNonEmpty(fields []interface{}, key, val string) []interface{} {
	if val = strings.TrimSpace(val); val == "" {
		return fields
	}
	return append(fields, key, val)
}
