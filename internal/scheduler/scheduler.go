package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/brycewandling-glitch/paper/internal/grading"
	"github.com/brycewandling-glitch/paper/internal/metrics"
	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/repository"
)

// Standings computes a season's ranked standings and its started week count
type Standings interface {
	Season(ctx context.Context, name string) (*models.SeasonData, error)
	WeekCount(ctx context.Context, name string) (int, error)
}

// WeekGrader settles a week's pending picks
type WeekGrader interface {
	GradeWeek(ctx context.Context, season string, week int, dryRun bool) (*grading.Report, error)
}

// SnapshotStore persists standings snapshots
type SnapshotStore interface {
	Save(ctx context.Context, snap *repository.Snapshot) error
	Prune(ctx context.Context, season string, before time.Time) (int64, error)
}

// Config holds scheduler settings
type Config struct {
	Season       string
	SnapshotCron string
	GradeEvery   time.Duration
	// SnapshotRetention bounds snapshot age; zero keeps every snapshot
	SnapshotRetention time.Duration
}

// Scheduler runs the background jobs:
// - standings snapshots on a cron schedule
// - grading of the current week's pending picks on a ticker
type Scheduler struct {
	cfg       Config
	standings Standings
	grader    WeekGrader
	snapshots SnapshotStore
	cron      *cron.Cron
	ticker    *time.Ticker
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewScheduler creates a new scheduler instance. A nil snapshot store disables snapshots.
func NewScheduler(cfg Config, standings Standings, grader WeekGrader, snapshots SnapshotStore) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		standings: standings,
		grader:    grader,
		snapshots: snapshots,
		cron:      cron.New(),
		stopChan:  make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Str("season", s.cfg.Season).Msg("Scheduler starting...")

	if s.snapshots != nil {
		if _, err := s.cron.AddFunc(s.cfg.SnapshotCron, func() {
			if err := s.SnapshotStandings(ctx); err != nil {
				log.Error().Err(err).Msg("Standings snapshot failed")
			}
		}); err != nil {
			return fmt.Errorf("failed to schedule standings snapshot: %w", err)
		}
		s.cron.Start()
		log.Info().
			Str("schedule", s.cfg.SnapshotCron).
			Msg("Standings snapshots scheduled")
	}

	if s.cfg.GradeEvery > 0 {
		s.ticker = time.NewTicker(s.cfg.GradeEvery)
		log.Info().
			Dur("interval", s.cfg.GradeEvery).
			Msg("Pick grading started")
		go s.pollPendingPicks(ctx)
	}

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		log.Info().Msg("Stopping scheduler...")

		if s.cron != nil {
			<-s.cron.Stop().Done()
		}

		if s.ticker != nil {
			s.ticker.Stop()
		}

		close(s.stopChan)
		log.Info().Msg("Scheduler stopped")
	})
}

func (s *Scheduler) pollPendingPicks(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping pick grading")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping pick grading")
			return
		case <-s.ticker.C:
			if _, err := s.GradeCurrentWeek(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to grade current week")
			}
		}
	}
}

// GradeCurrentWeek grades the latest started week of the current season
func (s *Scheduler) GradeCurrentWeek(ctx context.Context) (*grading.Report, error) {
	week, err := s.standings.WeekCount(ctx, s.cfg.Season)
	if err != nil {
		metrics.RecordError("scheduler", "week_count")
		return nil, fmt.Errorf("failed to count weeks: %w", err)
	}
	if week == 0 {
		log.Debug().Str("season", s.cfg.Season).Msg("No started weeks to grade")
		return nil, nil
	}

	report, err := s.grader.GradeWeek(ctx, s.cfg.Season, week, false)
	if err != nil {
		metrics.RecordError("scheduler", "grade_week")
		return nil, fmt.Errorf("failed to grade week %d: %w", week, err)
	}

	log.Info().
		Str("season", s.cfg.Season).
		Int("week", week).
		Int("written", report.Written).
		Msg("Pick grading complete")
	return report, nil
}

// SnapshotStandings stores the current season's standings
func (s *Scheduler) SnapshotStandings(ctx context.Context) error {
	start := time.Now()

	data, err := s.standings.Season(ctx, s.cfg.Season)
	if err != nil {
		metrics.RecordJob("standings_snapshot", "error", time.Since(start).Seconds())
		return fmt.Errorf("failed to compute standings: %w", err)
	}
	weeks, err := s.standings.WeekCount(ctx, s.cfg.Season)
	if err != nil {
		metrics.RecordJob("standings_snapshot", "error", time.Since(start).Seconds())
		return fmt.Errorf("failed to count weeks: %w", err)
	}

	snap := &repository.Snapshot{Season: s.cfg.Season, WeekCount: weeks, Data: data}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		metrics.RecordJob("standings_snapshot", "error", time.Since(start).Seconds())
		return err
	}

	if s.cfg.SnapshotRetention > 0 {
		pruned, err := s.snapshots.Prune(ctx, s.cfg.Season, time.Now().Add(-s.cfg.SnapshotRetention))
		if err != nil {
			log.Warn().Err(err).Msg("Failed to prune old snapshots")
		} else if pruned > 0 {
			log.Debug().Int64("pruned", pruned).Msg("Old snapshots pruned")
		}
	}

	metrics.RecordJob("standings_snapshot", "success", time.Since(start).Seconds())
	log.Info().
		Str("season", s.cfg.Season).
		Int("players", len(data.Players)).
		Dur("duration", time.Since(start)).
		Msg("Standings snapshot complete")
	return nil
}
