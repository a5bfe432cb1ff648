// Package streak computes run-length statistics over a player's ordered weekly outcomes.
package streak

import (
	"math"

	"github.com/brycewandling-glitch/paper/internal/models"
)

// Current walks results from most recent to oldest.
// Blanks are skipped, the first recorded result seeds the streak and the walk stops at the
// first result of a different kind. Returns W0 when nothing is recorded.
func Current(mostRecentFirst []models.Outcome) models.Streak {
	var cur models.Streak
	for _, o := range mostRecentFirst {
		if !o.IsRecorded() {
			continue
		}
		if cur.Count == 0 {
			cur = models.Streak{Kind: o, Count: 1}
			continue
		}
		if o != cur.Kind {
			break
		}
		cur.Count++
	}
	if cur.Count == 0 {
		return models.Streak{Kind: models.OutcomeWin, Count: 0}
	}
	return cur
}

// CurrentChronological is Current over oldest-first input
func CurrentChronological(results []models.Outcome) models.Streak {
	reversed := make([]models.Outcome, len(results))
	for i, o := range results {
		reversed[len(results)-1-i] = o
	}
	return Current(reversed)
}

// TrailingRecord is the win/loss record over the most recent decided games
type TrailingRecord struct {
	Wins   int
	Losses int
	WinPct float64
}

// Trailing takes the last n results that are a win or a loss and returns the record.
// WinPct is a fraction rounded to 3 decimals.
func Trailing(results []models.Outcome, n int) TrailingRecord {
	decided := make([]models.Outcome, 0, len(results))
	for _, o := range results {
		if o == models.OutcomeWin || o == models.OutcomeLoss {
			decided = append(decided, o)
		}
	}
	if len(decided) > n {
		decided = decided[len(decided)-n:]
	}

	var rec TrailingRecord
	for _, o := range decided {
		if o == models.OutcomeWin {
			rec.Wins++
		} else {
			rec.Losses++
		}
	}
	if games := rec.Wins + rec.Losses; games > 0 {
		rec.WinPct = math.Round(float64(rec.Wins)/float64(games)*1000) / 1000
	}
	return rec
}

// WinPercentage returns wins over the denominator as a percentage with one decimal.
// Pushes count toward the denominator only when includePushes is set.
func WinPercentage(wins, losses, pushes int, includePushes bool) float64 {
	denom := wins + losses
	if includePushes {
		denom += pushes
	}
	if denom <= 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(denom)*1000) / 10
}
