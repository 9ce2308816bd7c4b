package testutil

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/tgdash-backend/internal/data/db"
	types "github.com/yungbote/tgdash-backend/internal/domain/chatlog"
	"github.com/yungbote/tgdash-backend/internal/pkg/pointers"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

var (
	pgOnce sync.Once
	pgDB   *gorm.DB
	pgErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logg, err := logger.New("test")
	if err != nil {
		tb.Fatalf("failed to init logger: %v", err)
	}
	return logg
}

// DB returns a migrated database. Tests run against a private in-memory
// SQLite database unless TEST_POSTGRES_DSN points at a real Postgres.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		pgOnce.Do(func() {
			pgDB, pgErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
				DisableForeignKeyConstraintWhenMigrating: true,
				Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
			})
			if pgErr == nil {
				pgErr = db.AutoMigrateAll(pgDB)
			}
		})
		if pgErr != nil {
			tb.Fatalf("failed to init test db: %v", pgErr)
		}
		return Tx(tb, pgDB)
	}

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	// Every pooled connection would otherwise get its own empty database.
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrateAll(conn); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return conn
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func SeedUser(tb testing.TB, tx *gorm.DB, id int64, first, last, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        id,
		FirstName: pointers.NonZero(first),
		LastName:  pointers.NonZero(last),
		Username:  pointers.NonZero(username),
	}
	if err := tx.WithContext(context.Background()).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedMessage inserts a message. userID and threadID may be zero for "none".
func SeedMessage(tb testing.TB, tx *gorm.DB, id, chatID, userID, threadID int64, at time.Time, text string) *types.Message {
	tb.Helper()
	m := &types.Message{
		ID:              id,
		ChatID:          chatID,
		MessageThreadID: pointers.NonZero(threadID),
		UserID:          pointers.NonZero(userID),
		Text:            text,
		SentAt:          at.UTC(),
	}
	if err := tx.WithContext(context.Background()).Create(m).Error; err != nil {
		tb.Fatalf("seed message: %v", err)
	}
	return m
}

func SeedTopic(tb testing.TB, tx *gorm.DB, chatID, threadID int64, name string) {
	tb.Helper()
	t := &types.ForumTopic{ChatID: chatID, ThreadID: threadID, Name: name}
	if err := tx.WithContext(context.Background()).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
}
