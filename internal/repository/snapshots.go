package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/brycewandling-glitch/paper/internal/models"
)

// Snapshot is a stored copy of a season's standings
type Snapshot struct {
	ID         int64              `json:"id"`
	Season     string             `json:"season"`
	WeekCount  int                `json:"weekCount"`
	Data       *models.SeasonData `json:"data"`
	CapturedAt time.Time          `json:"capturedAt"`
}

// SnapshotRepository stores periodic standings snapshots
type SnapshotRepository struct {
	db *Database
}

// Save stores a snapshot as JSONB
func (r *SnapshotRepository) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil || snap.Data == nil {
		return fmt.Errorf("snapshot data cannot be nil")
	}
	if snap.Season == "" {
		snap.Season = snap.Data.Season
	}

	payload, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO standings_snapshots (season, week_count, data)
		VALUES ($1, $2, $3)
		RETURNING id, captured_at
	`

	start := time.Now()
	err = r.db.Pool.QueryRow(ctx, query, snap.Season, snap.WeekCount, payload).Scan(&snap.ID, &snap.CapturedAt)
	observe("insert", "standings_snapshots", start, err)
	if err != nil {
		log.Error().Err(err).Str("season", snap.Season).Msg("Failed to save standings snapshot")
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	log.Info().Int64("id", snap.ID).Str("season", snap.Season).Int("players", len(snap.Data.Players)).Msg("Standings snapshot saved")
	return nil
}

// Latest returns the most recent snapshot for a season
func (r *SnapshotRepository) Latest(ctx context.Context, season string) (*Snapshot, error) {
	query := `
		SELECT id, season, week_count, data, captured_at
		FROM standings_snapshots
		WHERE season = $1
		ORDER BY captured_at DESC, id DESC
		LIMIT 1
	`

	var (
		snap    Snapshot
		payload []byte
	)
	start := time.Now()
	err := r.db.Pool.QueryRow(ctx, query, season).Scan(&snap.ID, &snap.Season, &snap.WeekCount, &payload, &snap.CapturedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("snapshot for %q: %w", season, ErrNotFound)
	}
	observe("select", "standings_snapshots", start, err)
	if err != nil {
		return nil, err
	}

	snap.Data = &models.SeasonData{}
	if err := json.Unmarshal(payload, snap.Data); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %d: %w", snap.ID, err)
	}
	return &snap, nil
}

// Prune deletes a season's snapshots older than the cutoff and returns how many were removed
func (r *SnapshotRepository) Prune(ctx context.Context, season string, before time.Time) (int64, error) {
	query := `DELETE FROM standings_snapshots WHERE season = $1 AND captured_at < $2`

	start := time.Now()
	result, err := r.db.Pool.Exec(ctx, query, season, before)
	observe("delete", "standings_snapshots", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}

	log.Warn().Int64("rows_affected", result.RowsAffected()).Str("season", season).Msg("Standings snapshots pruned")
	return result.RowsAffected(), nil
}
