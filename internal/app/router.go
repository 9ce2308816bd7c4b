package app

import (
	"github.com/yungbote/tgdash-backend/internal/http"
	"github.com/yungbote/tgdash-backend/internal/observability"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) http.RouterConfig {
	log.Info("Wiring router...")
	return http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		CORSOrigins:      cfg.CORSOrigins,
		ServiceName:      cfg.ServiceName,
		HealthHandler:    handlers.Health,
		DashboardHandler: handlers.Dashboard,
		ReportHandler:    handlers.Report,
	}
}
