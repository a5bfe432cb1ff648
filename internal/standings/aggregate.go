// Package standings derives player records, divisions and league stats from season sheets.
package standings

import (
	"math"
	"strings"

	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/sheet"
	"github.com/brycewandling-glitch/paper/internal/streak"
)

// Config holds league settings
type Config struct {
	Seasons        []string
	IncludePushes  bool
	ProbationWeeks int
	LegendsSlots   int
	Options        sheet.Options
}

// DefaultConfig returns the league's standard settings
func DefaultConfig() Config {
	return Config{
		Seasons:        []string{"Season 1", "Season 2", "Season 3", "Season 4"},
		ProbationWeeks: 4,
		LegendsSlots:   6,
		Options:        sheet.DefaultOptions(),
	}
}

func (c Config) tagged(season string) bool {
	for _, s := range c.Options.DivisionTagSeasons {
		if strings.EqualFold(s, season) {
			return true
		}
	}
	return false
}

// Aggregate builds a player row and its ranking inputs for every player in the season,
// in column order. IDs are assigned from 1.
func Aggregate(s *sheet.Season, includePushes bool) ([]*models.Player, []models.PlayerMeta) {
	players := make([]*models.Player, 0, len(s.Players))
	metas := make([]models.PlayerMeta, 0, len(s.Players))

	for i, ps := range s.Players {
		outcomes := ps.Outcomes()
		p := &models.Player{
			ID:             i + 1,
			Name:           ps.Name,
			Division:       ps.Division,
			SeasonBetTotal: ps.BetTotal,
			Wins:           ps.Wins,
			Losses:         ps.Losses,
			Pushes:         ps.Pushes,
			WinPercentage:  streak.WinPercentage(ps.Wins, ps.Losses, ps.Pushes, includePushes),
			CurrentStreak:  streak.CurrentChronological(outcomes),
		}
		if ps.TotalsOverride && ps.TotalsWinPct != nil {
			p.WinPercentage = *ps.TotalsWinPct
		}
		p.SeasonRecord = p.Record()

		last10 := streak.Trailing(outcomes, 10)
		meta := models.PlayerMeta{
			InitialDivision: ps.Division,
			Last10WinPct:    last10.WinPct,
			Last10Wins:      last10.Wins,
			Last10Losses:    last10.Losses,
			AllTimeWinPct:   p.WinPercentage,
		}
		if ps.AllTimeWinPct != nil {
			meta.AllTimeWinPct = *ps.AllTimeWinPct
		}

		players = append(players, p)
		metas = append(metas, meta)
	}
	return players, metas
}

// Stats computes league numbers for one season.
//
// A week is a parlay hit when nobody with a result lost. In division-tagged seasons a week
// hits when either division's tagged entries are all wins or pushes.
func Stats(s *sheet.Season, divisionTags bool) models.SeasonStats {
	var st models.SeasonStats
	if s == nil || s.Table == nil {
		return st
	}

	var wins, losses int
	scan := streak.NewScanner()

	for row := range s.Table.Rows {
		hasData := false
		allClear := true
		var legendsSeen, leadersSeen bool
		legendsClear, leadersClear := true, true

		for _, ps := range s.Players {
			if row >= len(ps.Facts) {
				continue
			}
			f := ps.Facts[row]
			scan.Observe(ps.Name, f.Outcome)
			if !f.Outcome.IsRecorded() {
				continue
			}
			hasData = true

			switch f.Division {
			case models.DivisionLegends:
				legendsSeen = true
			case models.DivisionLeaders:
				leadersSeen = true
			}
			if f.Outcome == models.OutcomeLoss {
				allClear = false
				if f.Division == models.DivisionLegends {
					legendsClear = false
				} else {
					leadersClear = false
				}
			}

			switch f.Outcome {
			case models.OutcomeWin:
				wins++
			case models.OutcomeLoss:
				losses++
			}
		}

		if !hasData {
			continue
		}
		st.TotalWeeks++

		hit := allClear
		if divisionTags {
			hit = (legendsSeen && legendsClear) || (leadersSeen && leadersClear)
		}
		if hit {
			st.ParlaysHit++
			st.SeasonWins++
		}
	}

	st.OverallWinPercentage = pct(wins, losses)
	st.LongestWinStreak = scan.Leader(models.OutcomeWin)
	st.LongestLoseStreak = scan.Leader(models.OutcomeLoss)
	return st
}

func pct(wins, losses int) float64 {
	if wins+losses == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(wins+losses)*1000) / 10
}
