package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Log       LogConfig
	Reporting ReportingConfig
	Archive   ArchiveConfig
	Sheets    SheetsConfig
	Alerts    AlertConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string
}

// StoreConfig locates the SQLite measurement store.
type StoreConfig struct {
	Path string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// ArchiveConfig configures the optional MongoDB report archive. An empty URI
// disables archival.
type ArchiveConfig struct {
	URI        string
	DBName     string
	Collection string
}

// SheetsConfig configures the optional Google Sheets summary export. Both
// fields must be set for the export to run.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// AlertConfig configures the optional webhook that receives flagged-cow
// alerts. An empty URL disables alerting.
type AlertConfig struct {
	WebhookURL string
	Token      string
}

// Enabled reports whether report archival is configured.
func (c ArchiveConfig) Enabled() bool { return c.URI != "" }

// Enabled reports whether the sheet export is configured.
func (c SheetsConfig) Enabled() bool { return c.CredentialsPath != "" && c.SpreadsheetID != "" }

// Enabled reports whether flagged-cow alerting is configured.
func (c AlertConfig) Enabled() bool { return c.WebhookURL != "" }

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Store: StoreConfig{
			Path: getenvWithDefault("DB_PATH", "herdmon.db"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 6 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
		Archive: ArchiveConfig{
			URI:        os.Getenv("MONGODB_URI"),
			DBName:     getenvWithDefault("MONGODB_DB_NAME", "herdmon"),
			Collection: getenvWithDefault("MONGODB_COLLECTION", "reports"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Alerts: AlertConfig{
			WebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
			Token:      os.Getenv("ALERT_WEBHOOK_TOKEN"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and that
// optional integrations are either fully configured or fully absent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Store.Path == "" {
		return errors.New("DB_PATH must be provided")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Archive.Enabled() {
		if c.Archive.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
		}
		if c.Archive.Collection == "" {
			return errors.New("MONGODB_COLLECTION must be provided when MONGODB_URI is set")
		}
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be set together")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
