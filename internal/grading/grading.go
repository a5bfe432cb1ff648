// Package grading settles a week's pending picks from final game scores and writes the
// results back to the season sheet.
package grading

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/brycewandling-glitch/paper/internal/grader"
	"github.com/brycewandling-glitch/paper/internal/metrics"
	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/picks"
	"github.com/brycewandling-glitch/paper/internal/sheet"
	"github.com/brycewandling-glitch/paper/internal/standings"
	"github.com/brycewandling-glitch/paper/internal/teams"
)

// Actions taken for a pick
const (
	ActionGraded     = "graded"
	ActionPropagated = "propagated"
	ActionPending    = "pending"
	ActionSkipped    = "skipped"
)

// Decision records what happened to one player's pick
type Decision struct {
	Player   string        `json:"player"`
	Resolved string        `json:"resolved"`
	Result   models.Result `json:"result"`
	Action   string        `json:"action"`
	Reason   string        `json:"reason,omitempty"`
}

// Report summarizes a grading run
type Report struct {
	Season    string     `json:"season"`
	Week      int        `json:"week"`
	DryRun    bool       `json:"dryRun"`
	Written   int        `json:"written"`
	Decisions []Decision `json:"decisions"`
}

// Grader grades weeks against a game lookup
type Grader struct {
	src   sheet.Source
	games standings.GameLookup
	opts  sheet.Options
}

// New creates a grader
func New(src sheet.Source, games standings.GameLookup, opts sheet.Options) *Grader {
	return &Grader{src: src, games: games, opts: opts}
}

// GradeWeek looks up every pending original pick with a resolved matchup. Final games are
// graded, tails and fades follow their targets, and blank result cells are filled.
// Cells that already hold a result are never overwritten. A dry run writes nothing.
func (g *Grader) GradeWeek(ctx context.Context, season string, week int, dryRun bool) (*Report, error) {
	start := time.Now()
	report := &Report{Season: season, Week: week, DryRun: dryRun}

	grid, err := sheet.ReadGrid(ctx, g.src, season)
	if err != nil {
		metrics.RecordJob("grade_week", "error", time.Since(start).Seconds())
		return nil, err
	}
	s := sheet.Normalize(grid.Table(), season, g.opts)
	_, idx, err := sheet.FindWeekRow(s.Table, week)
	if err != nil {
		metrics.RecordJob("grade_week", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to find week %d in %q: %w", week, season, err)
	}

	all := standings.WeekPicks(s, idx, week)
	decisions := make(map[int]*Decision, len(all))
	for _, p := range all {
		decisions[p.PlayerID] = &Decision{Player: p.PlayerName, Resolved: p.ResolvedTeam, Result: p.Result}
	}

	g.gradeOriginals(ctx, all, decisions)

	grader.Propagate(all)

	for _, p := range all {
		ps := s.Players[p.PlayerID-1]
		d := decisions[p.PlayerID]
		if ps.Facts[idx].Outcome.IsRecorded() {
			d.Result = ps.Facts[idx].Outcome.Result()
			d.Action = ActionSkipped
			d.Reason = "already recorded"
			continue
		}
		d.Result = p.Result
		if p.Result == models.ResultPending {
			if d.Action == "" {
				d.Action = ActionPending
			}
			continue
		}
		if !p.IsOriginal() {
			d.Action = ActionPropagated
		}
		if ps.Result == "" {
			d.Reason = "no result column"
			continue
		}
		col := grid.Column(func(h string) bool { return h == strings.TrimSpace(ps.Result) })
		grid.Set(idx+1, col, string(p.Result.Outcome()))
		metrics.RecordGrade(string(p.Result))
		report.Written++
	}

	for _, p := range all {
		d := decisions[p.PlayerID]
		report.Decisions = append(report.Decisions, *d)
		log.Info().
			Str("season", season).
			Int("week", week).
			Str("player", d.Player).
			Str("resolved", d.Resolved).
			Str("result", string(d.Result)).
			Str("action", d.Action).
			Str("reason", d.Reason).
			Bool("dry_run", dryRun).
			Msg("Grading decision")
	}

	if report.Written > 0 && !dryRun {
		if err := g.src.Update(ctx, season, grid); err != nil {
			metrics.RecordJob("grade_week", "error", time.Since(start).Seconds())
			return nil, fmt.Errorf("failed to write results: %w", err)
		}
	}

	metrics.RecordJob("grade_week", "success", time.Since(start).Seconds())
	return report, nil
}

// gradeOriginals looks up pending original picks concurrently
func (g *Grader) gradeOriginals(ctx context.Context, all []*models.Pick, decisions map[int]*Decision) {
	var mu sync.Mutex
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)

	for _, p := range all {
		p := p
		d := decisions[p.PlayerID]
		if !p.IsOriginal() || p.Result != models.ResultPending {
			continue
		}
		resolved := p.ResolvedTeam
		if !strings.Contains(resolved, "@") {
			d.Action = ActionPending
			d.Reason = "no resolved matchup"
			continue
		}
		if _, ok := picks.ParseDirective(resolved); ok {
			continue
		}

		eg.Go(func() error {
			game, err := g.games.Lookup(gctx, resolved, teams.DetectSport(resolved))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				log.Warn().Err(err).Str("player", p.PlayerName).Str("resolved", resolved).Msg("Game lookup failed")
				d.Action, d.Reason = ActionPending, "lookup failed"
			case game == nil:
				d.Action, d.Reason = ActionPending, "game not found"
			case !game.IsFinal():
				d.Action, d.Reason = ActionPending, "game "+string(game.Status)
			default:
				p.Result = grader.GradePick(game, p.Team)
				d.Action = ActionGraded
				if p.Result == models.ResultPending {
					d.Action, d.Reason = ActionPending, "could not grade"
				}
			}
			return nil
		})
	}
	_ = eg.Wait()
}
