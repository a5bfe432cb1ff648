package models

import (
	"fmt"
	"strings"
)

// Division is the league tier a player bets in
type Division string

const (
	DivisionLegends Division = "Legends"
	DivisionLeaders Division = "Leaders"
)

// ParseDivision maps a free-text division name, defaulting to Leaders
func ParseDivision(s string) Division {
	if strings.EqualFold(strings.TrimSpace(s), string(DivisionLegends)) {
		return DivisionLegends
	}
	return DivisionLeaders
}

// Tag returns the lowercase parenthesized tag written after a pick, e.g. "(legends)"
func (d Division) Tag() string {
	return "(" + strings.ToLower(string(d)) + ")"
}

// Player is a derived standings row. It is rebuilt from sheet rows on every aggregation pass.
type Player struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Division       Division `json:"division"`
	SeasonBetTotal float64  `json:"seasonBetTotal"`
	SeasonRecord   string   `json:"seasonRecord"`
	Wins           int      `json:"wins"`
	Losses         int      `json:"losses"`
	Pushes         int      `json:"pushes"`
	WinPercentage  float64  `json:"winPercentage"`
	CurrentStreak  Streak   `json:"currentStreak"`
}

// Record formats wins-losses-pushes
func (p *Player) Record() string {
	return fmt.Sprintf("%d-%d-%d", p.Wins, p.Losses, p.Pushes)
}

// PlayerMeta holds ranking tie-break inputs. Discarded after the promotion sort.
type PlayerMeta struct {
	InitialDivision Division
	Last10WinPct    float64
	Last10Wins      int
	Last10Losses    int
	AllTimeWinPct   float64
}

// StreakRecord names the holder of a longest streak
type StreakRecord struct {
	Player string `json:"player"`
	Length int    `json:"length"`
}

// SeasonStats are league-wide numbers for one season or all time
type SeasonStats struct {
	ParlaysHit           int          `json:"parlaysHit"`
	OverallWinPercentage float64      `json:"overallWinPercentage"`
	TotalWeeks           int          `json:"totalWeeks"`
	SeasonWins           int          `json:"seasonWins"`
	LongestWinStreak     StreakRecord `json:"longestWinStreak"`
	LongestLoseStreak    StreakRecord `json:"longestLoseStreak"`
	LongestPushStreak    StreakRecord `json:"longestPushStreak"`
}

// SeasonData bundles the ranked players with season stats
type SeasonData struct {
	Season  string      `json:"season"`
	Players []*Player   `json:"players"`
	Stats   SeasonStats `json:"stats"`
}
