package resolver

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brycewandling-glitch/paper/internal/client"
	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/picks"
	"github.com/brycewandling-glitch/paper/internal/teams"
)

var (
	favoriteRe    = regexp.MustCompile(`([A-Z]+)\s*(-?\d+\.?\d*)`)
	resolvedRe    = regexp.MustCompile(`^(.+?)\s*@\s*(.+?)(?:\s*\(|$)`)
	parenDetailRe = regexp.MustCompile(`\(([^)]+)\)\s*$`)
)

// ESPNStrategy matches picks against the live game catalog
type ESPNStrategy struct {
	catalog Catalog
	matcher *teams.Matcher
	timeout time.Duration
	now     func() time.Time
}

// NewESPNStrategy creates a catalog-backed strategy. Each lookup is bounded by timeout.
func NewESPNStrategy(catalog Catalog, matcher *teams.Matcher, timeout time.Duration) *ESPNStrategy {
	if matcher == nil {
		matcher = teams.Default()
	}
	return &ESPNStrategy{catalog: catalog, matcher: matcher, timeout: timeout, now: time.Now}
}

func (s *ESPNStrategy) Name() string { return "espn" }

// Resolve searches the week starting at req.WeekDate for the picked team
func (s *ESPNStrategy) Resolve(ctx context.Context, req Request) (*models.Resolution, error) {
	if req.WeekDate.IsZero() {
		return nil, nil
	}
	intent := picks.Parse(req.Text)
	if intent.Team == "" {
		return nil, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := req.WeekDate
	events, err := s.catalog.FetchScoreboard(ctx, teams.DetectSport(req.Text), start, start.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}

	for i := range events {
		if details, ok := s.match(&events[i], intent); ok {
			return &models.Resolution{ResolvedText: details.ResolvedText, Game: details}, nil
		}
	}
	return nil, nil
}

func (s *ESPNStrategy) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *ESPNStrategy) match(ev *client.Event, intent picks.Intent) (*models.GameDetails, bool) {
	if len(ev.Competitions) == 0 {
		return nil, false
	}
	comp := &ev.Competitions[0]
	home, okHome := comp.Competitor("home")
	away, okAway := comp.Competitor("away")
	if !okHome || !okAway {
		return nil, false
	}

	if intent.IsTwoTeam() {
		if !s.coversBoth(intent.Teams[0], intent.Teams[1], home, away) {
			return nil, false
		}
		label := home.Team.DisplayName
		if intent.Kind == picks.KindTotal {
			label = "Under"
			if intent.Over {
				label = "Over"
			}
		}
		return Details(ev, intent, label), true
	}

	for _, c := range []*client.Competitor{home, away} {
		if s.matcher.Matches(intent.Team, c.Team.EventTeam()) {
			return Details(ev, intent, c.Team.DisplayName), true
		}
	}
	return nil, false
}

// coversBoth reports whether the two names cover the two sides, in either order
func (s *ESPNStrategy) coversBoth(a, b string, home, away *client.Competitor) bool {
	h, w := home.Team.EventTeam(), away.Team.EventTeam()
	return (s.matcher.Matches(a, h) && s.matcher.Matches(b, w)) ||
		(s.matcher.Matches(a, w) && s.matcher.Matches(b, h))
}

// Details builds the canonical game record for an event and the side a pick selected
func Details(ev *client.Event, intent picks.Intent, matchedTeam string) *models.GameDetails {
	comp := &ev.Competitions[0]
	home, _ := comp.Competitor("home")
	away, _ := comp.Competitor("away")

	d := &models.GameDetails{
		GameID:      ev.ID,
		GameName:    ev.Name,
		ShortName:   ev.ShortName,
		Venue:       comp.Venue.FullName,
		City:        firstNonEmpty(comp.Venue.Address.City, comp.Venue.City),
		State:       firstNonEmpty(comp.Venue.Address.State, comp.Venue.State),
		Broadcasts:  []string{},
		MatchedTeam: matchedTeam,
	}
	if home != nil {
		d.HomeTeam = home.Team.DisplayName
		d.HomeAbbrev = home.Team.Abbreviation
		d.HomeScore = parseScore(home.Score)
	}
	if away != nil {
		d.AwayTeam = away.Team.DisplayName
		d.AwayAbbrev = away.Team.Abbreviation
		d.AwayScore = parseScore(away.Score)
	}

	for _, b := range comp.Broadcasts {
		d.Broadcasts = append(d.Broadcasts, b.Names...)
	}

	if len(comp.Odds) > 0 {
		odds := comp.Odds[0]
		d.OverUnder = odds.OverUnder
		if m := favoriteRe.FindStringSubmatch(odds.Details); m != nil {
			d.FavoriteTeam = m[1]
			if v, err := strconv.ParseFloat(m[2], 64); err == nil {
				d.Spread = &v
			}
		}
		if d.Spread == nil {
			d.Spread = odds.Spread
		}
	}

	date := firstNonEmpty(comp.Date, ev.Date)
	if t, ok := client.ParseEventDate(date); ok {
		d.GameDate = t
		d.GameDateFormatted = formatKickoff(t)
	}

	status := comp.Status
	if status.Type.State == "" {
		status = ev.Status
	}
	switch status.Type.State {
	case "post":
		d.Status = models.GameFinal
	case "in":
		d.Status = models.GameLive
	default:
		d.Status = models.GameScheduled
	}
	d.StatusDetail = firstNonEmpty(status.Type.ShortDetail, d.GameDateFormatted)

	d.ResolvedText = d.AwayTeam + " @ " + d.HomeTeam + selection(d, intent, matchedTeam)
	return d
}

func selection(d *models.GameDetails, intent picks.Intent, matchedTeam string) string {
	if intent.Kind == picks.KindTotal {
		dir := "Under"
		if intent.Over {
			dir = "Over"
		}
		total := intent.Total
		if total == nil {
			total = d.OverUnder
		}
		if total == nil {
			return " (" + dir + ")"
		}
		return " (" + dir + " " + picks.FormatNumber(*total) + ")"
	}

	line := intent.Spread
	if line == nil && d.Spread != nil && d.FavoriteTeam != "" {
		v := math.Abs(*d.Spread)
		abbrev := d.AwayAbbrev
		if matchedTeam == d.HomeTeam {
			abbrev = d.HomeAbbrev
		}
		if strings.EqualFold(abbrev, d.FavoriteTeam) {
			v = -v
		}
		line = &v
	}
	if line == nil {
		return " (" + matchedTeam + ")"
	}
	return " (" + matchedTeam + " " + picks.FormatLine(*line) + ")"
}

// Lookup finds the event behind a resolved description such as
// "Ohio State Buckeyes @ Texas Longhorns (Texas Longhorns -3.5)".
// Both teams must match one event within [now-3d, now+7d].
func (s *ESPNStrategy) Lookup(ctx context.Context, resolved string, sport teams.Sport) (*models.GameDetails, error) {
	m := resolvedRe.FindStringSubmatch(strings.TrimSpace(resolved))
	if m == nil {
		return nil, nil
	}
	awayName, homeName := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now()
	events, err := s.catalog.FetchScoreboard(ctx, sport, now.AddDate(0, 0, -3), now.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}

	matched := ""
	if pm := parenDetailRe.FindStringSubmatch(resolved); pm != nil {
		matched = strings.TrimSpace(pm[1])
	}

	for i := range events {
		ev := &events[i]
		if len(ev.Competitions) == 0 {
			continue
		}
		home, okHome := ev.Competitions[0].Competitor("home")
		away, okAway := ev.Competitions[0].Competitor("away")
		if !okHome || !okAway {
			continue
		}
		if !s.matcher.Matches(homeName, home.Team.EventTeam()) || !s.matcher.Matches(awayName, away.Team.EventTeam()) {
			continue
		}
		d := Details(ev, picks.Intent{Kind: picks.KindMoneyline}, matched)
		d.ResolvedText = resolved
		log.Debug().Str("resolved", resolved).Str("game_id", d.GameID).Msg("Found game for resolved text")
		return d, nil
	}
	return nil, nil
}

func parseScore(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

func formatKickoff(t time.Time) string {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format("Mon, Jan 2, 3:04 PM MST")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
