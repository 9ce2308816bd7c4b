package app

import (
	"errors"
	"fmt"

	"github.com/yungbote/tgdash-backend/internal/clients/openrouter"
	"github.com/yungbote/tgdash-backend/internal/clients/telegram"
	"github.com/yungbote/tgdash-backend/internal/modules/report"
	"github.com/yungbote/tgdash-backend/internal/observability"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

type Services struct {
	Report   *report.Service
	Telegram *telegram.Client
}

// wireServices builds the report service and the optional Telegram client.
// Missing model or bot credentials are not fatal: the affected endpoints
// answer 503/500 until the environment is fixed.
func wireServices(log *logger.Logger, cfg Config, repos Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	deps := report.Deps{
		Log:        log,
		ChatLog:    repos.ChatLog,
		Metrics:    metrics,
		CharBudget: cfg.CharBudget,
	}
	model, err := openrouter.New(log, cfg.OpenRouter)
	switch {
	case err == nil:
		deps.Model = model
	case errors.Is(err, openrouter.ErrNotConfigured):
		log.Warn("OpenRouter not configured; report endpoints will return 503")
	default:
		return Services{}, fmt.Errorf("init openrouter: %w", err)
	}

	out := Services{Report: report.NewService(deps)}

	tg, err := telegram.New(log, cfg.Telegram)
	switch {
	case err == nil:
		out.Telegram = tg
	case errors.Is(err, telegram.ErrNotConfigured):
		log.Warn("Telegram not configured; delivery is disabled")
	default:
		return Services{}, fmt.Errorf("init telegram: %w", err)
	}
	return out, nil
}
