package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Resolution sources
const (
	SourceSubmit   = "submit"
	SourceAnnotate = "annotate"
)

// ResolutionRecord is an audit entry for a pick's resolved description
type ResolutionRecord struct {
	ID           uuid.UUID `json:"id"`
	Season       string    `json:"season"`
	Week         int       `json:"week"`
	Player       string    `json:"player"`
	PickText     string    `json:"pickText"`
	ResolvedText string    `json:"resolvedText"`
	Strategy     string    `json:"strategy"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ResolutionRepository stores the audit log of resolved picks
type ResolutionRepository struct {
	db *Database
}

// Record inserts an audit entry, assigning its id
func (r *ResolutionRepository) Record(ctx context.Context, rec *ResolutionRecord) error {
	if rec == nil {
		return fmt.Errorf("resolution record cannot be nil")
	}
	if err := validateResolution(rec); err != nil {
		return fmt.Errorf("resolution validation failed: %w", err)
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	query := `
		INSERT INTO pick_resolutions (
			id, season, week, player, pick_text, resolved_text, strategy, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	start := time.Now()
	err := r.db.Pool.QueryRow(ctx, query,
		rec.ID, rec.Season, rec.Week, rec.Player, rec.PickText, rec.ResolvedText, rec.Strategy, rec.Source,
	).Scan(&rec.CreatedAt)
	observe("insert", "pick_resolutions", start, err)

	if err != nil {
		log.Error().Err(err).Str("player", rec.Player).Int("week", rec.Week).Msg("Failed to record resolution")
		return fmt.Errorf("failed to record resolution: %w", err)
	}

	log.Debug().Str("id", rec.ID.String()).Str("player", rec.Player).Str("strategy", rec.Strategy).Msg("Resolution recorded")
	return nil
}

// ListByWeek returns a week's audit entries, newest first
func (r *ResolutionRepository) ListByWeek(ctx context.Context, season string, week int) ([]ResolutionRecord, error) {
	query := `
		SELECT id, season, week, player, pick_text, resolved_text, strategy, source, created_at
		FROM pick_resolutions
		WHERE season = $1 AND week = $2
		ORDER BY created_at DESC
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, season, week)
	if err != nil {
		observe("select", "pick_resolutions", start, err)
		return nil, fmt.Errorf("failed to query resolutions: %w", err)
	}
	defer rows.Close()

	var out []ResolutionRecord
	for rows.Next() {
		var rec ResolutionRecord
		if err := rows.Scan(
			&rec.ID, &rec.Season, &rec.Week, &rec.Player, &rec.PickText,
			&rec.ResolvedText, &rec.Strategy, &rec.Source, &rec.CreatedAt,
		); err != nil {
			observe("select", "pick_resolutions", start, err)
			return nil, fmt.Errorf("failed to scan resolution: %w", err)
		}
		out = append(out, rec)
	}
	err = rows.Err()
	observe("select", "pick_resolutions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate resolutions: %w", err)
	}
	return out, nil
}

func validateResolution(rec *ResolutionRecord) error {
	if strings.TrimSpace(rec.Season) == "" {
		return fmt.Errorf("season is required")
	}
	if rec.Week <= 0 {
		return fmt.Errorf("week must be positive")
	}
	if strings.TrimSpace(rec.Player) == "" {
		return fmt.Errorf("player is required")
	}
	if rec.Source != SourceSubmit && rec.Source != SourceAnnotate {
		return fmt.Errorf("unknown source %q", rec.Source)
	}
	return nil
}
