// Command gradeweek grades one week of a season sheet against final scores and exits.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/brycewandling-glitch/paper/internal/client"
	"github.com/brycewandling-glitch/paper/internal/config"
	"github.com/brycewandling-glitch/paper/internal/grading"
	"github.com/brycewandling-glitch/paper/internal/resolver"
	"github.com/brycewandling-glitch/paper/internal/sheet"
	"github.com/brycewandling-glitch/paper/internal/teams"
)

func main() {
	sheetName := flag.String("sheet", "", "season sheet to grade (defaults to CURRENT_SEASON)")
	week := flag.Int("week", 0, "week number to grade")
	dryRun := flag.Bool("dry-run", false, "report decisions without writing results")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall time limit")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if *week <= 0 {
		log.Fatal().Int("week", *week).Msg("-week must be a positive number")
	}

	cfg := config.MustLoad()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	season := *sheetName
	if season == "" {
		season = cfg.CurrentSeason
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	src := sheet.NewClient(sheet.ClientConfig{
		BaseURL:        cfg.SheetsBaseURL,
		SpreadsheetID:  cfg.SheetsSpreadsheetID,
		APIKey:         cfg.SheetsAPIKey,
		AccessToken:    cfg.SheetsAccessToken,
		Timeout:        cfg.SheetsTimeout,
		MaxAttempts:    cfg.SheetsMaxAttempts,
		InitialBackoff: cfg.SheetsInitialBackoff,
		RatePerSecond:  cfg.SheetsRateLimit,
	})
	espn := client.NewESPNClient(cfg.ESPNBaseURL, cfg.ESPNTimeout)
	games := resolver.NewESPNStrategy(espn, teams.Default(), cfg.ESPNLookupTimeout)

	opts := sheet.DefaultOptions()
	opts.DivisionTagSeasons = cfg.DivisionTagSeasons

	report, err := grading.New(src, games, opts).GradeWeek(ctx, season, *week, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Str("season", season).Int("week", *week).Msg("Grading failed")
	}

	for _, d := range report.Decisions {
		log.Info().
			Str("player", d.Player).
			Str("resolved", d.Resolved).
			Str("result", string(d.Result)).
			Str("action", string(d.Action)).
			Str("reason", d.Reason).
			Msg("Decision")
	}
	log.Info().
		Str("season", report.Season).
		Int("week", report.Week).
		Bool("dry_run", report.DryRun).
		Int("written", report.Written).
		Int("decisions", len(report.Decisions)).
		Msg("Grading complete")
}
