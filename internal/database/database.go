package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/benote/benote-core/internal/config"
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/modules"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database. Driver errors are translated into
// gorm's ErrDuplicatedKey and ErrForeignKeyViolated.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	slog.Info("database connected", "driver", cfg.DBDriver)
	return db, nil
}

// Migrate runs AutoMigrate for the models of every module in one pass, so
// gorm can order tables whose foreign keys cross modules, then the log table.
func Migrate(db *gorm.DB, mods []modules.Module) error {
	if err := db.AutoMigrate(modules.Migratable(mods)...); err != nil {
		return fmt.Errorf("migrate modules: %w", err)
	}
	for _, m := range mods {
		slog.Info("module migrated", "module", m.ID(), "models", len(m.Models()))
	}
	if err := db.AutoMigrate(&models.SystemLog{}); err != nil {
		return fmt.Errorf("migrate system logs: %w", err)
	}
	return nil
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
