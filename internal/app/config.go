package app

import (
	"github.com/yungbote/tgdash-backend/internal/clients/openrouter"
	"github.com/yungbote/tgdash-backend/internal/clients/telegram"
	"github.com/yungbote/tgdash-backend/internal/platform/envutil"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	DatabaseURL string
	AutoMigrate bool

	OpenRouter openrouter.Config
	CharBudget int

	Telegram telegram.Config

	CORSOrigins []string
	ServiceName string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:        envutil.String("PORT", "8080", log),
		Environment: envutil.String("APP_ENV", "development", log),
		Version:     envutil.String("APP_VERSION", "dev", log),
		DatabaseURL: envutil.String("DATABASE_URL", "", nil),
		AutoMigrate: envutil.Bool("DB_AUTOMIGRATE", false),
		OpenRouter:  openrouter.ConfigFromEnv(log),
		CharBudget:  envutil.Int("LLM_TEXT_CHAR_BUDGET", 80000, log),
		Telegram:    telegram.ConfigFromEnv(log),
		CORSOrigins: envutil.List("CORS_ALLOWED_ORIGINS"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "tgdash", log),
	}
}
