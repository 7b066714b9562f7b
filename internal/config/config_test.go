package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("LOG_RETENTION", "")
	t.Setenv("NOTIFICATIONS_PAGE_SIZE", "")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 30*24*time.Hour, cfg.LogRetention)
	assert.Equal(t, 10, cfg.NotificationsPageSize)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("LOG_RETENTION", "forever")
	t.Setenv("NOTIFICATIONS_PAGE_SIZE", "many")

	cfg := Load()
	assert.Equal(t, 30*24*time.Hour, cfg.LogRetention)
	assert.Equal(t, 10, cfg.NotificationsPageSize)
}

func TestValidate(t *testing.T) {
	t.Run("PostgresWithoutPassword", func(t *testing.T) {
		cfg := &Config{DBDriver: "postgres", NotificationsPageSize: 10}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_PASSWORD")
	})

	t.Run("SQLite", func(t *testing.T) {
		cfg := &Config{DBDriver: "sqlite", SQLitePath: "benote.db", NotificationsPageSize: 10}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		cfg := &Config{DBDriver: "mongo", NotificationsPageSize: 10}
		assert.Error(t, cfg.Validate())
	})
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
