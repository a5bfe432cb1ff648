package resolver

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/picks"
)

// NoLine marks a schedule entry without a published spread
const NoLine = -999

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// Schedule2025 holds the opening weeks of the 2025 college season.
// A negative spread means the home side is favored.
var Schedule2025 = []models.ScheduledGame{
	{Date: day("2025-08-22"), Home: "Fresno State", Away: "Kansas", Spread: 14, Week: 1},
	{Date: day("2025-08-22"), Home: "Rutgers", Away: "Howard", Spread: -47, Week: 1},
	{Date: day("2025-08-23"), Home: "Stanford", Away: "Cal Poly", Spread: -2.5, Week: 1},
	{Date: day("2025-08-23"), Home: "Kansas State", Away: "Wichita State", Spread: -52, Week: 1},
	{Date: day("2025-08-23"), Home: "SMU", Away: "TCU", Spread: -8.5, Week: 1},
	{Date: day("2025-08-23"), Home: "Jacksonville State", Away: "UCF", Spread: -52.5, Week: 1},

	{Date: day("2025-08-29"), Home: "Texas", Away: "Alabama", Spread: -13.5, Week: 2},
	{Date: day("2025-08-29"), Home: "Penn State", Away: "Kent State", Spread: NoLine, Week: 2},
	{Date: day("2025-08-30"), Home: "Ohio State", Away: "Marshall", Spread: NoLine, Week: 2},
	{Date: day("2025-08-30"), Home: "Maryland", Away: "American", Spread: NoLine, Week: 2},
	{Date: day("2025-08-30"), Home: "Tennessee", Away: "North Carolina", Spread: -13.5, Week: 2},
	{Date: day("2025-08-30"), Home: "Iowa", Away: "Illinois", Spread: -50.5, Week: 2},
}

var (
	firstNumberRe  = regexp.MustCompile(`(-?\d+(?:\.\d+)?)`)
	trailingPuncRe = regexp.MustCompile(`[\s,;:+\-]+$`)
)

// SplitTeamSpread separates "Kansas -14" into the team part and the first number found
func SplitTeamSpread(text string) (string, *float64) {
	clean := picks.StripTags(text)
	loc := firstNumberRe.FindStringSubmatchIndex(clean)
	if loc == nil {
		return strings.TrimSpace(clean), nil
	}
	team := strings.TrimSpace(trailingPuncRe.ReplaceAllString(clean[:loc[2]], ""))
	v, err := strconv.ParseFloat(clean[loc[2]:loc[3]], 64)
	if err != nil {
		return team, nil
	}
	return team, &v
}

// FindGame picks the schedule entry for a team in a week. A non-zero date limits the
// search to [date, date+7d). When several games match, one whose spread is within a
// point of the pick's is preferred.
func FindGame(schedule []models.ScheduledGame, team string, spread *float64, date time.Time, week int) (models.ScheduledGame, bool) {
	tp := strings.ToLower(strings.TrimSpace(team))
	if tp == "" {
		return models.ScheduledGame{}, false
	}

	var matches []models.ScheduledGame
	for _, g := range schedule {
		if g.Week != week {
			continue
		}
		if !date.IsZero() && (g.Date.Before(date) || !g.Date.Before(date.AddDate(0, 0, 7))) {
			continue
		}
		if strings.Contains(strings.ToLower(g.Home), tp) || strings.Contains(strings.ToLower(g.Away), tp) {
			matches = append(matches, g)
		}
	}
	if len(matches) == 0 {
		return models.ScheduledGame{}, false
	}

	if spread != nil {
		for _, g := range matches {
			if math.Abs(math.Abs(g.Spread)-math.Abs(*spread)) <= 1 {
				return g, true
			}
		}
	}
	return matches[0], true
}

// FormatGame renders "Away @ Home (+spread)"; entries without a line omit the spread
func FormatGame(g models.ScheduledGame) string {
	s := g.Away + " @ " + g.Home
	if g.Spread == NoLine {
		return s
	}
	return s + " (" + picks.FormatLine(g.Spread) + ")"
}

// StaticScheduleStrategy resolves against a built-in schedule
type StaticScheduleStrategy struct {
	schedule []models.ScheduledGame
}

// NewStaticScheduleStrategy uses Schedule2025 when schedule is nil
func NewStaticScheduleStrategy(schedule []models.ScheduledGame) *StaticScheduleStrategy {
	if schedule == nil {
		schedule = Schedule2025
	}
	return &StaticScheduleStrategy{schedule: schedule}
}

func (s *StaticScheduleStrategy) Name() string { return "static_schedule" }

// Resolve requires a week date so entries from another season never match by week alone
func (s *StaticScheduleStrategy) Resolve(_ context.Context, req Request) (*models.Resolution, error) {
	if req.WeekDate.IsZero() {
		return nil, nil
	}
	team, spread := SplitTeamSpread(req.Text)
	g, ok := FindGame(s.schedule, team, spread, req.WeekDate, req.Week)
	if !ok {
		return nil, nil
	}
	return &models.Resolution{ResolvedText: FormatGame(g)}, nil
}
