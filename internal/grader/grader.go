// Package grader computes Win/Loss/Push for picks on finished games.
package grader

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/picks"
	"github.com/brycewandling-glitch/paper/internal/teams"
)

const epsilon = 1e-9

// Side is which team of a game a pick selected
type Side int

const (
	SideNone Side = iota
	SideHome
	SideAway
)

func compare(a, b float64) models.Result {
	switch {
	case math.Abs(a-b) < epsilon:
		return models.ResultPush
	case a > b:
		return models.ResultWin
	default:
		return models.ResultLoss
	}
}

// Spread grades a spread pick: picked score plus the line against the opponent's score
func Spread(picked, opponent int, spread float64) models.Result {
	return compare(float64(picked)+spread, float64(opponent))
}

// Total grades an over/under pick on the combined score
func Total(home, away int, threshold float64, over bool) models.Result {
	sum := float64(home + away)
	if over {
		return compare(sum, threshold)
	}
	return compare(threshold, sum)
}

// Moneyline grades a straight-up pick
func Moneyline(picked, opponent int) models.Result {
	return compare(float64(picked), float64(opponent))
}

var (
	selectionRe = regexp.MustCompile(`\(([^)]+)\)\s*$`)
	totalSelRe  = regexp.MustCompile(`(?i)^(over|under)(?:\s+(\d+\.?\d*))?$`)
	lineSelRe   = regexp.MustCompile(`^(.+?)\s+([+-]?\d+\.?\d*)$`)
	bareLineRe  = regexp.MustCompile(`^[+-]?\d+\.?\d*$`)
)

var matcher = teams.Default()

// GradeResolved grades a game using the selection in its resolved description,
// e.g. "Away @ Home (Home -3)" or "Away @ Home (Over 54.5)".
// Games that are not final, or whose selection cannot be read, are Pending.
func GradeResolved(g *models.GameDetails) models.Result {
	return GradePick(g, "")
}

// GradePick grades a game for a pick. The selection in the resolved description wins;
// when it names no team, as in "Away @ Home (+14)" or "Away @ Home", the pick text
// supplies the team, line or total.
func GradePick(g *models.GameDetails, pickText string) models.Result {
	if g == nil || !g.IsFinal() {
		return models.ResultPending
	}

	sel := ""
	if m := selectionRe.FindStringSubmatch(g.ResolvedText); m != nil {
		sel = strings.TrimSpace(m[1])
	}

	if m := totalSelRe.FindStringSubmatch(sel); m != nil {
		threshold := g.OverUnder
		if m[2] != "" {
			threshold = parseLine(m[2])
		}
		return gradeTotal(g, threshold, strings.EqualFold(m[1], "over"))
	}

	team, line := sel, (*float64)(nil)
	switch {
	case bareLineRe.MatchString(sel):
		team, line = "", parseLine(sel)
	default:
		if m := lineSelRe.FindStringSubmatch(sel); m != nil {
			if v := parseLine(m[2]); v != nil {
				team, line = strings.TrimSpace(m[1]), v
			}
		}
	}
	if team == "" && !bareLineRe.MatchString(g.MatchedTeam) {
		team = g.MatchedTeam
	}

	if side := sideOf(g, team); side != SideNone {
		return gradeSide(g, side, line)
	}
	if strings.TrimSpace(pickText) == "" {
		return models.ResultPending
	}

	intent := picks.Parse(pickText)
	if intent.Kind == picks.KindTotal {
		threshold := intent.Total
		if threshold == nil {
			threshold = g.OverUnder
		}
		return gradeTotal(g, threshold, intent.Over)
	}
	side := sideOf(g, intent.Team)
	if side == SideNone {
		return models.ResultPending
	}
	if line == nil {
		line = intent.Spread
	}
	return gradeSide(g, side, line)
}

func gradeTotal(g *models.GameDetails, threshold *float64, over bool) models.Result {
	if threshold == nil {
		return models.ResultPending
	}
	return Total(*g.HomeScore, *g.AwayScore, *threshold, over)
}

func gradeSide(g *models.GameDetails, side Side, line *float64) models.Result {
	picked, opponent := *g.HomeScore, *g.AwayScore
	if side == SideAway {
		picked, opponent = opponent, picked
	}
	if line != nil {
		return Spread(picked, opponent, *line)
	}
	return Moneyline(picked, opponent)
}

func parseLine(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

// sideOf finds the side a team reference points at.
// Past exact hits, both sides go through the alias matcher and an ambiguous reference is SideNone.
func sideOf(g *models.GameDetails, team string) Side {
	t := strings.TrimSpace(team)
	if t == "" {
		return SideNone
	}
	switch {
	case strings.EqualFold(g.HomeTeam, t), strings.EqualFold(g.HomeAbbrev, t):
		return SideHome
	case strings.EqualFold(g.AwayTeam, t), strings.EqualFold(g.AwayAbbrev, t):
		return SideAway
	}

	home := matcher.Matches(t, teams.EventTeam{Name: g.HomeTeam, DisplayName: g.HomeTeam, Abbreviation: g.HomeAbbrev})
	away := matcher.Matches(t, teams.EventTeam{Name: g.AwayTeam, DisplayName: g.AwayTeam, Abbreviation: g.AwayAbbrev})
	switch {
	case home && !away:
		return SideHome
	case away && !home:
		return SideAway
	}
	return SideNone
}

// Propagate grades tails from the picks they point at.
// A tail takes its target's result, a reverse tail the inverse. Chains resolve transitively;
// a cycle or a missing target leaves the pick Pending.
func Propagate(picks []*models.Pick) {
	byPlayer := make(map[int]*models.Pick, len(picks))
	for _, p := range picks {
		if p.IsOriginal() {
			byPlayer[p.PlayerID] = p
		}
	}
	for _, p := range picks {
		if _, ok := byPlayer[p.PlayerID]; !ok {
			byPlayer[p.PlayerID] = p
		}
	}

	var resolve func(p *models.Pick, seen map[int]bool) models.Result
	resolve = func(p *models.Pick, seen map[int]bool) models.Result {
		if p.IsOriginal() {
			return p.Result
		}
		if seen[p.PlayerID] {
			return models.ResultPending
		}
		seen[p.PlayerID] = true
		target, ok := byPlayer[p.TailingPlayerID]
		if !ok || target == p {
			return models.ResultPending
		}
		r := resolve(target, seen)
		if p.IsReverseTail {
			return r.Invert()
		}
		return r
	}

	for _, p := range picks {
		if p.IsOriginal() {
			continue
		}
		p.Result = resolve(p, map[int]bool{})
	}
}
