package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tgdash-backend/internal/observability"
)

const reportKindRoute = "/api/report/:kind"

// reportKinds are expanded into their own route label; anything else under
// the kind route stays on the template so labels stay bounded.
var reportKinds = map[string]bool{"generate": true, "insights": true, "preview": true}

// Metrics records API counts, latency and in-flight requests. Report kinds
// get separate route labels because preview and generate differ in cost.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.APIInflightInc()
		defer m.APIInflightDec()

		c.Next()

		m.ObserveAPI(c.Request.Method, metricsRoute(c), c.Writer.Status(), time.Since(start))
	}
}

func metricsRoute(c *gin.Context) string {
	route := c.FullPath()
	switch {
	case route == "":
		return "unknown"
	case route == reportKindRoute && reportKinds[c.Param("kind")]:
		return "/api/report/" + c.Param("kind")
	default:
		return route
	}
}
