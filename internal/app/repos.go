package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/tgdash-backend/internal/data/repos/chatlog"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

type Repos struct {
	ChatLog *chatlog.Repo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		ChatLog: chatlog.NewRepo(db, log),
	}
}
