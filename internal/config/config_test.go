package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, int32(25), cfg.Database.MaxConns)
		assert.Equal(t, int32(5), cfg.Database.MinConns)
		assert.Equal(t, 9, cfg.Office.StartHour)
		assert.Equal(t, 17, cfg.Office.EndHour)
		assert.Equal(t, 4, cfg.Office.MaxBreaksPerDay)
		assert.Equal(t, 30*time.Minute, cfg.Office.OrphanBreakTimeout)
		assert.Equal(t, "sandbox", cfg.Bank.Environment)
	})

	t.Run("pool sizing from environment", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_MAX_CONNS", "50")
		t.Setenv("DB_MIN_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, int32(50), cfg.Database.MaxConns)
		assert.Equal(t, int32(10), cfg.Database.MinConns)
	})

	t.Run("min above max is rejected", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_MAX_CONNS", "5")
		t.Setenv("DB_MIN_CONNS", "10")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("office clock overrides", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("OFFICE_START_TIME", "08:30")
		t.Setenv("OFFICE_END_TIME", "16:45")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Office.StartHour)
		assert.Equal(t, 30, cfg.Office.StartMinute)
		assert.Equal(t, 16, cfg.Office.EndHour)
		assert.Equal(t, 45, cfg.Office.EndMinute)
	})

	t.Run("malformed office clock is rejected", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("OFFICE_START_TIME", "9am")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("missing JWT secret is rejected", func(t *testing.T) {
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("JWT_SECRET_KEY", "")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDatabaseURL(t *testing.T) {
	t.Parallel()

	cfg := DatabaseConfig{
		Host: "db.internal", Port: 5433,
		User: "app", Password: "pw",
		Name: "workpulse", SSLMode: "require",
	}
	assert.Equal(t, "postgres://app:pw@db.internal:5433/workpulse?sslmode=require", cfg.URL())
}
