package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/tgdash-backend/internal/http/handlers"
	httpMW "github.com/yungbote/tgdash-backend/internal/http/middleware"
	"github.com/yungbote/tgdash-backend/internal/observability"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
	ServiceName string

	HealthHandler    *httpH.HealthHandler
	DashboardHandler *httpH.DashboardHandler
	ReportHandler    *httpH.ReportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Dashboard
		if cfg.DashboardHandler != nil {
			api.GET("/overview", cfg.DashboardHandler.Overview)
			api.GET("/topics", cfg.DashboardHandler.Topics)
		}

		// Reports
		if cfg.ReportHandler != nil {
			api.GET("/report/:kind", cfg.ReportHandler.Report)
			api.GET("/reports/all", cfg.ReportHandler.All)
			api.POST("/send-to-telegram", cfg.ReportHandler.SendToTelegram)
		}
	}

	return r
}
