package database

import (
	"fmt"

	chatdomain "syncode-backend/internal/chat/domain"
	authdomain "syncode-backend/internal/auth/domain"
	execdomain "syncode-backend/internal/execution/domain"
	snippetdomain "syncode-backend/internal/snippet/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresConnection opens the database. TranslateError lets repositories
// match gorm.ErrDuplicatedKey on unique violations.
func NewPostgresConnection(dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Models lists every persisted type.
func Models() []any {
	return []any{
		&authdomain.User{},
		&snippetdomain.Snippet{},
		&execdomain.RunHistory{},
		&chatdomain.ChatLog{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
