package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

func TestRequestLoggerAddsReportFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	r := gin.New()
	r.Use(AttachTraceContext(), RequestLogger(log))
	r.GET("/api/report/:kind", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/report/preview?persona=business&days=7&chat_id=-100", nil)
	req.Header.Set(headerRequestID, "req-7")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthcheck?persona=x", nil))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	report := entries[0]
	if report.Level != zap.ErrorLevel {
		t.Fatalf("level = %v", report.Level)
	}
	fields := report.ContextMap()
	want := map[string]string{"path": "/api/report/:kind", "kind": "preview", "persona": "business", "days": "7", "chat_id": "-100", "request_id": "req-7"}
	for k, v := range want {
		if fields[k] != v {
			t.Fatalf("%s = %v, want %q (fields %v)", k, fields[k], v, fields)
		}
	}
	if _, ok := fields["date"]; ok {
		t.Fatalf("absent params should not be logged: %v", fields)
	}
	if _, ok := entries[1].ContextMap()["persona"]; ok {
		t.Fatalf("non-api routes should not carry report fields")
	}
}
