package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/tgdash-backend/internal/domain"
)

// AutoMigrateAll creates the collector's tables. Production databases are
// owned by the collector bot; this exists for local setups and tests.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}
