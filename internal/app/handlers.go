package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/tgdash-backend/internal/http/handlers"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Dashboard *httpH.DashboardHandler
	Report    *httpH.ReportHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, repos Repos, services Services) (Handlers, error) {
	log.Info("Wiring handlers...")
	sqlDB, err := db.DB()
	if err != nil {
		return Handlers{}, err
	}
	var sender httpH.ReportSender
	if services.Telegram != nil {
		sender = services.Telegram
	}
	return Handlers{
		Health:    httpH.NewHealthHandler(sqlDB),
		Dashboard: httpH.NewDashboardHandler(log, repos.ChatLog),
		Report:    httpH.NewReportHandler(log, services.Report, sender),
	}, nil
}
