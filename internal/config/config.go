package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

// Config holds all application configuration
type Config struct {
	// Google Sheets
	SheetsSpreadsheetID  string        `envconfig:"SHEETS_SPREADSHEET_ID" required:"true"`
	SheetsAPIKey         string        `envconfig:"SHEETS_API_KEY" default:""`
	SheetsAccessToken    string        `envconfig:"SHEETS_ACCESS_TOKEN" default:""`
	SheetsBaseURL        string        `envconfig:"SHEETS_BASE_URL" default:"https://sheets.googleapis.com"`
	SheetsTimeout        time.Duration `envconfig:"SHEETS_TIMEOUT" default:"15s"`
	SheetsCacheTTL       time.Duration `envconfig:"SHEETS_CACHE_TTL" default:"60s"`
	SheetsMaxAttempts    int           `envconfig:"SHEETS_MAX_ATTEMPTS" default:"5"`
	SheetsInitialBackoff time.Duration `envconfig:"SHEETS_INITIAL_BACKOFF" default:"300ms"`
	SheetsRateLimit      float64       `envconfig:"SHEETS_RATE_LIMIT" default:"1"`

	// ESPN scoreboards
	ESPNBaseURL       string        `envconfig:"ESPN_BASE_URL" default:"https://site.api.espn.com/apis/site/v2/sports"`
	ESPNTimeout       time.Duration `envconfig:"ESPN_TIMEOUT" default:"10s"`
	ESPNLookupTimeout time.Duration `envconfig:"ESPN_LOOKUP_TIMEOUT" default:"8s"`
	CatalogCacheTTL   time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"5m"`

	// Database
	DatabaseEnabled  bool   `envconfig:"DATABASE_ENABLED" default:"false"`
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"paper"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"paper"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" default:""`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`
	DatabaseMaxConns int32  `envconfig:"DATABASE_MAX_CONNS" default:"10"`

	// Redis
	RedisEnabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// League
	CurrentSeason       string   `envconfig:"CURRENT_SEASON" default:"Season 4"`
	Seasons             []string `envconfig:"SEASONS" default:"Season 1,Season 2,Season 3,Season 4"`
	WinPctIncludePushes bool     `envconfig:"WIN_PCT_INCLUDE_PUSHES" default:"false"`
	ProbationWeeks      int      `envconfig:"PROBATION_WEEKS" default:"4"`
	LegendsSlots        int      `envconfig:"LEGENDS_SLOTS" default:"6"`
	DivisionTagSeasons  []string `envconfig:"DIVISION_TAG_SEASONS" default:"Season 4"`
	ScheduleSheets      []string `envconfig:"SCHEDULE_SHEETS" default:""`

	// Application
	AppEnv      string   `envconfig:"APP_ENV" default:"development"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	HTTPPort    int      `envconfig:"HTTP_PORT" default:"5000"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`

	// Scheduler
	EnableScheduler       bool          `envconfig:"ENABLE_SCHEDULER" default:"true"`
	StandingsSnapshotCron string        `envconfig:"STANDINGS_SNAPSHOT_CRON" default:"0 */6 * * *"`
	GradePollInterval     time.Duration `envconfig:"GRADE_POLL_INTERVAL" default:"10m"`
	SnapshotRetention     time.Duration `envconfig:"SNAPSHOT_RETENTION" default:"720h"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.SheetsSpreadsheetID == "" {
		return fmt.Errorf("SHEETS_SPREADSHEET_ID is required")
	}

	if c.LegendsSlots <= 0 {
		return fmt.Errorf("LEGENDS_SLOTS must be positive, got %d", c.LegendsSlots)
	}

	if c.ProbationWeeks <= 0 {
		return fmt.Errorf("PROBATION_WEEKS must be positive, got %d", c.ProbationWeeks)
	}

	if len(c.Seasons) == 0 {
		return fmt.Errorf("SEASONS must list at least one season")
	}

	if c.EnableScheduler {
		if _, err := cron.ParseStandard(c.StandingsSnapshotCron); err != nil {
			return fmt.Errorf("STANDINGS_SNAPSHOT_CRON is invalid: %w", err)
		}
		if c.GradePollInterval <= 0 {
			return fmt.Errorf("GRADE_POLL_INTERVAL must be positive")
		}
	}

	if c.DatabaseEnabled && c.DatabasePassword == "" && c.IsProduction() {
		return fmt.Errorf("DATABASE_PASSWORD is required in production")
	}

	return nil
}

// DatabasePortString returns the database port for DSN building
func (c *Config) DatabasePortString() string {
	return strconv.Itoa(c.DatabasePort)
}

// RedisPortString returns the Redis port as a string
func (c *Config) RedisPortString() string {
	return strconv.Itoa(c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
