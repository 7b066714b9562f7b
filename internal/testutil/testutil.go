// Package testutil opens throwaway SQLite databases migrated with every
// module and seeds common fixtures for the integration tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/modules"
	"github.com/benote/benote-core/internal/store"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB returns a private in-memory database. A single connection keeps the
// memory database alive and serialises access, so code under test must use
// the transaction handle it is given instead of the root handle.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	mods := modules.All()
	if err := db.AutoMigrate(modules.Migratable(mods)...); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	if err := db.AutoMigrate(&models.SystemLog{}); err != nil {
		tb.Fatalf("migrate system logs: %v", err)
	}
	return db
}

// Store returns a store over a fresh database with the full graph.
func Store(tb testing.TB) *store.Store {
	tb.Helper()
	graph, err := modules.Graph(modules.All())
	if err != nil {
		tb.Fatalf("compile graph: %v", err)
	}
	return store.New(DB(tb), graph)
}
