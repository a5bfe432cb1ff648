package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/brycewandling-glitch/paper/internal/api"
	"github.com/brycewandling-glitch/paper/internal/cache"
	"github.com/brycewandling-glitch/paper/internal/client"
	"github.com/brycewandling-glitch/paper/internal/config"
	"github.com/brycewandling-glitch/paper/internal/grading"
	"github.com/brycewandling-glitch/paper/internal/ledger"
	"github.com/brycewandling-glitch/paper/internal/metrics"
	"github.com/brycewandling-glitch/paper/internal/repository"
	"github.com/brycewandling-glitch/paper/internal/resolver"
	"github.com/brycewandling-glitch/paper/internal/scheduler"
	"github.com/brycewandling-glitch/paper/internal/sheet"
	"github.com/brycewandling-glitch/paper/internal/standings"
	"github.com/brycewandling-glitch/paper/internal/teams"
)

func main() {
	setupLogger()

	log.Info().Msg("Starting betting pool server")

	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("season", cfg.CurrentSeason).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	var health []api.HealthCheck

	// Redis is optional; without it caches stay in process
	var store cache.Store
	if cfg.RedisEnabled {
		redisCache, err := cache.NewRedisCache(cache.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPortString(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "pool:",
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without shared cache")
		} else {
			defer redisCache.Close()
			store = redisCache
			health = append(health, api.HealthCheck{Name: "redis", Check: redisCache.Ping})
			log.Info().Msg("Redis cache connected")
		}
	}

	sheetsClient := sheet.NewClient(sheet.ClientConfig{
		BaseURL:        cfg.SheetsBaseURL,
		SpreadsheetID:  cfg.SheetsSpreadsheetID,
		APIKey:         cfg.SheetsAPIKey,
		AccessToken:    cfg.SheetsAccessToken,
		Timeout:        cfg.SheetsTimeout,
		MaxAttempts:    cfg.SheetsMaxAttempts,
		InitialBackoff: cfg.SheetsInitialBackoff,
		RatePerSecond:  cfg.SheetsRateLimit,
	})
	// the shared read has to outlast the client's retries
	cacheOpts := []sheet.CacheOption{
		sheet.WithFetchTimeout(cfg.SheetsTimeout * time.Duration(cfg.SheetsMaxAttempts)),
	}
	if store != nil {
		cacheOpts = append(cacheOpts, sheet.WithStore(store))
	}
	src := sheet.NewCachedSource(sheetsClient, cfg.SheetsCacheTTL, cacheOpts...)
	log.Info().Dur("ttl", cfg.SheetsCacheTTL).Msg("Sheets client initialized")

	var espnOpts []client.ESPNOption
	if store != nil {
		espnOpts = append(espnOpts, client.WithScoreboardCache(store, cfg.CatalogCacheTTL))
	}
	espn := client.NewESPNClient(cfg.ESPNBaseURL, cfg.ESPNTimeout, espnOpts...)

	matcher := teams.Default()
	chain := resolver.NewDefaultChain(espn, src, matcher, cfg.ESPNLookupTimeout)
	games := resolver.NewESPNStrategy(espn, matcher, cfg.ESPNLookupTimeout)

	opts := sheet.DefaultOptions()
	opts.DivisionTagSeasons = cfg.DivisionTagSeasons
	standingsCfg := standings.Config{
		Seasons:        cfg.Seasons,
		IncludePushes:  cfg.WinPctIncludePushes,
		ProbationWeeks: cfg.ProbationWeeks,
		LegendsSlots:   cfg.LegendsSlots,
		Options:        opts,
	}
	svc := standings.NewService(src, standingsCfg, standings.WithGameLookup(games))

	ledgerOpts := []ledger.Option{ledger.WithScheduleSheets(cfg.ScheduleSheets)}

	// The database only backs the resolution audit log and standings snapshots
	var (
		snapshots   scheduler.SnapshotStore
		snapReader  api.SnapshotReader
		resolutions api.ResolutionReader
		poolStats   func() map[string]interface{}
	)
	if cfg.DatabaseEnabled {
		db, err := repository.NewDatabase(ctx, repository.Config{
			Host:     cfg.DatabaseHost,
			Port:     cfg.DatabasePortString(),
			User:     cfg.DatabaseUser,
			Password: cfg.DatabasePassword,
			Database: cfg.DatabaseName,
			SSLMode:  cfg.DatabaseSSLMode,
			MaxConns: cfg.DatabaseMaxConns,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		ledgerOpts = append(ledgerOpts, ledger.WithAuditLog(db.Resolutions))
		snapshots = db.Snapshots
		snapReader = db.Snapshots
		resolutions = db.Resolutions
		poolStats = db.PoolStats
		health = append(health, api.HealthCheck{Name: "database", Check: db.Health})
		log.Info().Msg("Database connection established")
	}

	book := ledger.New(src, chain, ledgerOpts...)
	grader := grading.New(src, games, opts)

	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
	}

	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
				if poolStats != nil {
					poolStats()
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	sched := scheduler.NewScheduler(scheduler.Config{
		Season:            cfg.CurrentSeason,
		SnapshotCron:      cfg.StandingsSnapshotCron,
		GradeEvery:        cfg.GradePollInterval,
		SnapshotRetention: cfg.SnapshotRetention,
	}, svc, grader, snapshots)

	if cfg.EnableScheduler {
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	server := api.NewServer(api.Deps{
		Source:         src,
		Standings:      svc,
		Ledger:         book,
		Games:          games,
		Matcher:        matcher,
		DefaultSeason:  cfg.CurrentSeason,
		ScheduleSheets: cfg.ScheduleSheets,
		Health:         health,
		Snapshots:      snapReader,
		Resolutions:    resolutions,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      server.Router(cfg.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	sched.Stop()
	log.Info().Msg("Server shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer serves Prometheus metrics on their own port
func startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	log.Info().Int("port", port).Msg("Starting metrics server")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
