package resolver

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/picks"
	"github.com/brycewandling-glitch/paper/internal/sheet"
)

var (
	dateKeyRe   = regexp.MustCompile(`(?i)\bdate\b|game_date|game date`)
	homeKeyRe   = regexp.MustCompile(`(?i)home|team1|team_home|team`)
	awayKeyRe   = regexp.MustCompile(`(?i)away|visitor|opponent|team2|team_away`)
	spreadKeyRe = regexp.MustCompile(`(?i)spread|line|pointspread|odds|total`)
	matchupRe   = regexp.MustCompile(`(?i)^(.+?)\s+(?:at|@|vs\.?|v)\s+(.+)$`)
)

// ScheduleSheetNames lists the sheets searched for a season's schedule
func ScheduleSheetNames(season string) []string {
	return []string{season + " Schedule", "Schedule", "Games", "Game Schedule", "Season Schedule"}
}

// Candidates returns schedule-sheet rows that match a pick for a season week.
// Sheets that cannot be read are skipped.
func Candidates(ctx context.Context, src sheet.Source, season string, week int, pickText string, scheduleSheets []string) ([]models.ScheduleCandidate, error) {
	t, err := sheet.ReadTable(ctx, src, season)
	if err != nil {
		return nil, err
	}
	var start time.Time
	if _, _, err := sheet.FindWeekRow(t, week); err == nil {
		start, _ = sheet.WeekDate(t, week)
	} else if !errors.Is(err, sheet.ErrWeekNotFound) {
		return nil, err
	}

	names := scheduleSheets
	if len(names) == 0 {
		names = ScheduleSheetNames(season)
	}
	team, spread := SplitTeamSpread(pickText)
	return scanSchedules(ctx, src, names, team, spread, start), nil
}

func scanSchedules(ctx context.Context, src sheet.Source, names []string, team string, spread *float64, start time.Time) []models.ScheduleCandidate {
	tp := strings.ToLower(team)
	if tp == "" {
		return nil
	}

	var out []models.ScheduleCandidate
	for _, name := range names {
		t, err := sheet.ReadTable(ctx, src, name)
		if err != nil || t.Empty() {
			log.Debug().Err(err).Str("sheet", name).Msg("Schedule sheet unavailable")
			continue
		}
		keys := sniffHeaders(t.Headers)

		for _, row := range t.Rows {
			c := models.ScheduleCandidate{Sheet: name, Row: row}

			if keys.date != "" {
				if d, ok := sheet.ParseDate(row[keys.date]); ok {
					if !start.IsZero() && (d.Before(start) || !d.Before(start.AddDate(0, 0, 7))) {
						continue
					}
					c.ParsedDate = &d
				}
			}

			c.Home = strings.TrimSpace(row[keys.home])
			c.Away = strings.TrimSpace(row[keys.away])
			if c.Away == "" {
				splitMatchup(t.Headers, row, keys, &c)
			}

			if !rowMentions(row, c, tp) {
				continue
			}

			c.Spread = rowSpread(t.Headers, row, keys)
			if spread != nil && c.Spread != nil && math.Abs(math.Abs(*spread)-math.Abs(*c.Spread)) > 1 {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

type headerKeys struct {
	date, home, away string
	spread           []string
}

// sniffHeaders finds the schedule columns. The away column is chosen first so a
// "Visitor" header is never read as the home side.
func sniffHeaders(headers []string) headerKeys {
	var k headerKeys
	for _, h := range headers {
		switch {
		case k.date == "" && dateKeyRe.MatchString(h):
			k.date = h
		case k.away == "" && awayKeyRe.MatchString(h):
			k.away = h
		}
	}
	for _, h := range headers {
		if k.home == "" && h != k.away && h != k.date && homeKeyRe.MatchString(h) {
			k.home = h
		}
		if h != k.date && spreadKeyRe.MatchString(h) {
			k.spread = append(k.spread, h)
		}
	}
	return k
}

// splitMatchup reads "X at Y" / "X vs Y" as away X, home Y, from the home cell first
// and then from any other non-date cell
func splitMatchup(headers []string, row sheet.Row, keys headerKeys, c *models.ScheduleCandidate) {
	cells := []string{c.Home}
	if c.Home == "" {
		for _, h := range headers {
			if h != keys.date {
				cells = append(cells, row[h])
			}
		}
	}
	for _, cell := range cells {
		if m := matchupRe.FindStringSubmatch(strings.TrimSpace(cell)); m != nil {
			c.Away, c.Home = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
			return
		}
	}
}

func rowMentions(row sheet.Row, c models.ScheduleCandidate, tp string) bool {
	if strings.Contains(strings.ToLower(c.Home), tp) || strings.Contains(strings.ToLower(c.Away), tp) {
		return true
	}
	for _, v := range row {
		if strings.Contains(strings.ToLower(v), tp) {
			return true
		}
	}
	return false
}

func rowSpread(headers []string, row sheet.Row, keys headerKeys) *float64 {
	for _, h := range keys.spread {
		if v := firstNumber(row[h]); v != nil {
			return v
		}
	}
	for _, h := range headers {
		if h == keys.date {
			continue
		}
		if v := firstNumber(row[h]); v != nil {
			return v
		}
	}
	return nil
}

func firstNumber(s string) *float64 {
	m := firstNumberRe.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}

// FormatCandidate renders "Away @ Home (+spread)" from whatever the row provided
func FormatCandidate(c models.ScheduleCandidate) string {
	var s string
	switch {
	case c.Home != "" && c.Away != "":
		s = c.Away + " @ " + c.Home
	case c.Home != "":
		s = c.Home
	default:
		s = c.Away
	}
	if c.Spread != nil && s != "" {
		s += " (" + picks.FormatLine(*c.Spread) + ")"
	}
	return s
}

// SheetScheduleStrategy resolves against schedule sheets in the spreadsheet
type SheetScheduleStrategy struct {
	src sheet.Source
}

// NewSheetScheduleStrategy creates a strategy reading schedules from src
func NewSheetScheduleStrategy(src sheet.Source) *SheetScheduleStrategy {
	return &SheetScheduleStrategy{src: src}
}

func (s *SheetScheduleStrategy) Name() string { return "sheet_schedule" }

func (s *SheetScheduleStrategy) Resolve(ctx context.Context, req Request) (*models.Resolution, error) {
	names := req.ScheduleSheets
	if len(names) == 0 {
		names = ScheduleSheetNames(req.Sheet)
	}
	team, spread := SplitTeamSpread(req.Text)
	found := scanSchedules(ctx, s.src, names, team, spread, req.WeekDate)
	if len(found) == 0 {
		return nil, nil
	}
	return &models.Resolution{ResolvedText: FormatCandidate(found[0])}, nil
}

// FallbackStrategy formats the raw pick text when nothing else matched
type FallbackStrategy struct{}

func (FallbackStrategy) Name() string { return "fallback" }

func (FallbackStrategy) Resolve(_ context.Context, req Request) (*models.Resolution, error) {
	text := picks.FormatFallback(req.Text)
	if text == "" {
		return nil, nil
	}
	return &models.Resolution{ResolvedText: text}, nil
}
