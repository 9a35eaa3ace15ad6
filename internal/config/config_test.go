package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "")
	t.Setenv("ALERT_WEBHOOK_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "herdmon.db", cfg.Store.Path)
	assert.Equal(t, "0 6 * * *", cfg.Reporting.CronSchedule)
	assert.Equal(t, "UTC", cfg.Reporting.Timezone)
	assert.False(t, cfg.Archive.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.Alerts.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("DB_PATH", "/var/lib/herdmon/herd.db")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("ALERT_WEBHOOK_URL", "https://hooks.example.com/herd")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "/var/lib/herdmon/herd.db", cfg.Store.Path)
	assert.True(t, cfg.Archive.Enabled())
	assert.Equal(t, "herdmon", cfg.Archive.DBName)
	assert.Equal(t, "reports", cfg.Archive.Collection)
	assert.True(t, cfg.Alerts.Enabled())
}

func TestLoadRejectsHalfConfiguredSheets(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("ALERT_WEBHOOK_URL", "")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "creds.json")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SHEET")
}
