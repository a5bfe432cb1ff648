package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SHEETS_SPREADSHEET_ID", "sheet-123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Season 4", cfg.CurrentSeason)
	assert.Equal(t, []string{"Season 1", "Season 2", "Season 3", "Season 4"}, cfg.Seasons)
	assert.Equal(t, 6, cfg.LegendsSlots)
	assert.Equal(t, 4, cfg.ProbationWeeks)
	assert.Equal(t, 60*time.Second, cfg.SheetsCacheTTL)
	assert.Equal(t, 300*time.Millisecond, cfg.SheetsInitialBackoff)
	assert.Equal(t, 8*time.Second, cfg.ESPNLookupTimeout)
	assert.Empty(t, cfg.ScheduleSheets)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_RequiresSpreadsheetID(t *testing.T) {
	t.Setenv("SHEETS_SPREADSHEET_ID", "")

	_, err := Load()
	assert.Error(t, err, "Missing spreadsheet id should fail")
}

func TestLoad_ListOverrides(t *testing.T) {
	t.Setenv("SHEETS_SPREADSHEET_ID", "sheet-123")
	t.Setenv("SEASONS", "Season 3,Season 4")
	t.Setenv("DIVISION_TAG_SEASONS", "Season 3,Season 4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Season 3", "Season 4"}, cfg.Seasons)
	assert.Equal(t, []string{"Season 3", "Season 4"}, cfg.DivisionTagSeasons)
}

func validConfig() Config {
	return Config{
		SheetsSpreadsheetID:   "sheet-123",
		Seasons:               []string{"Season 4"},
		LegendsSlots:          6,
		ProbationWeeks:        4,
		EnableScheduler:       true,
		StandingsSnapshotCron: "0 */6 * * *",
		GradePollInterval:     time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero slots", func(c *Config) { c.LegendsSlots = 0 }},
		{"negative probation", func(c *Config) { c.ProbationWeeks = -1 }},
		{"no seasons", func(c *Config) { c.Seasons = nil }},
		{"bad cron", func(c *Config) { c.StandingsSnapshotCron = "every day" }},
		{"zero poll interval", func(c *Config) { c.GradePollInterval = 0 }},
		{"production database without password", func(c *Config) {
			c.AppEnv = "production"
			c.DatabaseEnabled = true
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := validConfig()
	assert.NoError(t, cfg.Validate())

	cfg.EnableScheduler = false
	cfg.StandingsSnapshotCron = "every day"
	assert.NoError(t, cfg.Validate(), "Cron is only checked when the scheduler runs")
}
