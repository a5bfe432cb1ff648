package standings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/rules"
	"github.com/brycewandling-glitch/paper/internal/sheet"
	"github.com/brycewandling-glitch/paper/internal/streak"
	"github.com/brycewandling-glitch/paper/internal/teams"
)

// GameLookup finds live game state for a resolved description
type GameLookup interface {
	Lookup(ctx context.Context, resolved string, sport teams.Sport) (*models.GameDetails, error)
}

// Service reads season sheets and derives standings
type Service struct {
	src   sheet.Source
	cfg   Config
	games GameLookup
	now   func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithGameLookup attaches live game details to week picks
func WithGameLookup(g GameLookup) Option {
	return func(s *Service) { s.games = g }
}

// WithClock overrides the clock used for week counting
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a standings service over a sheet source
func NewService(src sheet.Source, cfg Config, opts ...Option) *Service {
	s := &Service{src: src, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the league settings
func (s *Service) Config() Config {
	return s.cfg
}

// LoadSeason reads and normalizes a season sheet
func (s *Service) LoadSeason(ctx context.Context, name string) (*sheet.Season, error) {
	return sheet.ReadSeason(ctx, s.src, name, s.cfg.Options)
}

// RankSeason aggregates and ranks an already-loaded season
func (s *Service) RankSeason(season *sheet.Season) []*models.Player {
	players, metas := Aggregate(season, s.cfg.IncludePushes)
	return Rank(players, metas, season.CompletedWeeks, s.cfg.ProbationWeeks, s.cfg.LegendsSlots)
}

// Standings returns the season's players in ranked order
func (s *Service) Standings(ctx context.Context, name string) ([]*models.Player, error) {
	season, err := s.LoadSeason(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.RankSeason(season), nil
}

// Season returns ranked players and league stats for one season
func (s *Service) Season(ctx context.Context, name string) (*models.SeasonData, error) {
	season, err := s.LoadSeason(ctx, name)
	if err != nil {
		return nil, err
	}
	return &models.SeasonData{
		Season:  name,
		Players: s.RankSeason(season),
		Stats:   Stats(season, s.cfg.tagged(name)),
	}, nil
}

// loadAll reads every configured season concurrently. A season that fails to load
// is logged and comes back empty.
func (s *Service) loadAll(ctx context.Context) []*sheet.Season {
	seasons := make([]*sheet.Season, len(s.cfg.Seasons))

	var g errgroup.Group
	for i, name := range s.cfg.Seasons {
		i, name := i, name
		g.Go(func() error {
			season, err := s.LoadSeason(ctx, name)
			if err != nil {
				log.Warn().Err(err).Str("season", name).Msg("Season unavailable, treating as empty")
				season = &sheet.Season{Name: name, Table: &sheet.Table{}}
			}
			seasons[i] = season
			return nil
		})
	}
	_ = g.Wait()
	return seasons
}

type allTimeEntry struct {
	player  *models.Player
	results []models.Outcome
}

// AllTime merges every season by player name. Streaks span seasons in chronological order.
func (s *Service) AllTime(ctx context.Context) (*models.SeasonData, error) {
	seasons := s.loadAll(ctx)

	var order []*allTimeEntry
	byName := make(map[string]*allTimeEntry)
	var stats models.SeasonStats
	var wins, losses int
	scan := streak.NewScanner()

	for _, season := range seasons {
		st := Stats(season, s.cfg.tagged(season.Name))
		stats.ParlaysHit += st.ParlaysHit
		stats.SeasonWins += st.SeasonWins
		stats.TotalWeeks += st.TotalWeeks

		for row := range season.Table.Rows {
			for _, ps := range season.Players {
				if row < len(ps.Facts) {
					scan.Observe(ps.Name, ps.Facts[row].Outcome)
				}
			}
		}

		for _, ps := range season.Players {
			key := strings.ToLower(ps.Name)
			e, ok := byName[key]
			if !ok {
				e = &allTimeEntry{player: &models.Player{
					ID:       len(order) + 1,
					Name:     ps.Name,
					Division: models.DivisionLeaders,
				}}
				byName[key] = e
				order = append(order, e)
			}
			e.player.SeasonBetTotal += ps.BetTotal
			e.player.Wins += ps.Wins
			e.player.Losses += ps.Losses
			e.player.Pushes += ps.Pushes
			wins += ps.Wins
			losses += ps.Losses
			e.results = append(e.results, seasonResults(ps)...)
		}
	}

	players := make([]*models.Player, 0, len(order))
	for _, e := range order {
		p := e.player
		p.SeasonRecord = p.Record()
		p.WinPercentage = streak.WinPercentage(p.Wins, p.Losses, p.Pushes, s.cfg.IncludePushes)
		recent := e.results
		if len(recent) > 20 {
			recent = recent[len(recent)-20:]
		}
		p.CurrentStreak = streak.CurrentChronological(recent)
		players = append(players, p)
	}

	stats.OverallWinPercentage = pct(wins, losses)
	stats.LongestWinStreak = scan.Leader(models.OutcomeWin)
	stats.LongestLoseStreak = scan.Leader(models.OutcomeLoss)
	stats.LongestPushStreak = scan.Leader(models.OutcomePush)

	return &models.SeasonData{Season: "All Time", Players: players, Stats: stats}, nil
}

// seasonResults lists recorded outcomes in week order. A season counted from the TOTALS rows
// has no weekly results, so its counts stand in.
func seasonResults(ps *sheet.PlayerSeason) []models.Outcome {
	if ps.TotalsOverride {
		out := make([]models.Outcome, 0, ps.Wins+ps.Losses+ps.Pushes)
		for i := 0; i < ps.Wins; i++ {
			out = append(out, models.OutcomeWin)
		}
		for i := 0; i < ps.Losses; i++ {
			out = append(out, models.OutcomeLoss)
		}
		for i := 0; i < ps.Pushes; i++ {
			out = append(out, models.OutcomePush)
		}
		return out
	}
	var out []models.Outcome
	for _, o := range ps.Outcomes() {
		if o.IsRecorded() {
			out = append(out, o)
		}
	}
	return out
}

// WeekView is one week's picks and ticket
type WeekView struct {
	Season string         `json:"season"`
	Week   int            `json:"week"`
	Picks  []*models.Pick `json:"picks"`
	Slip   Slip           `json:"slip"`
}

// Week returns the picks for a week with tails resolved. When a game lookup is attached,
// picks with a resolved matchup get live game details; lookup failures leave them bare.
func (s *Service) Week(ctx context.Context, name string, week int) (*WeekView, error) {
	season, err := s.LoadSeason(ctx, name)
	if err != nil {
		return nil, err
	}
	_, idx, err := sheet.FindWeekRow(season.Table, week)
	if err != nil {
		return nil, fmt.Errorf("failed to find week %d in %q: %w", week, name, err)
	}

	all := WeekPicks(season, idx, week)
	if s.games != nil {
		s.attachGames(ctx, all)
	}
	return &WeekView{Season: name, Week: week, Picks: all, Slip: BetSlip(all)}, nil
}

func (s *Service) attachGames(ctx context.Context, all []*models.Pick) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, p := range all {
		p := p
		resolved := p.ResolvedTeam
		if !strings.Contains(resolved, "@") || isDirective(resolved) {
			continue
		}
		g.Go(func() error {
			details, err := s.games.Lookup(gctx, resolved, teams.DetectSport(resolved))
			if err != nil {
				log.Warn().Err(err).Str("player", p.PlayerName).Str("resolved", resolved).Msg("Game lookup failed")
				return nil
			}
			p.Game = details
			return nil
		})
	}
	_ = g.Wait()
}

// WeekCount returns how many weeks of the season have started
func (s *Service) WeekCount(ctx context.Context, name string) (int, error) {
	t, err := sheet.ReadTable(ctx, s.src, name)
	if err != nil {
		return 0, err
	}
	return sheet.WeekCount(t, s.now()), nil
}

// NextBets returns every player's next wager under the bet progression
func (s *Service) NextBets(ctx context.Context, name string) ([]models.BetUpdate, error) {
	season, err := s.LoadSeason(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([]models.BetUpdate, 0, len(season.Players))
	for _, ps := range season.Players {
		out = append(out, rules.NextBet(ps.Name, ps.Outcomes()))
	}
	return out, nil
}

// Board returns the ranked standings a pick for the given week is validated against
func (s *Service) Board(ctx context.Context, name string, week int) (*rules.Board, error) {
	season, err := s.LoadSeason(ctx, name)
	if err != nil {
		return nil, err
	}
	ranked := s.RankSeason(season)
	b := &rules.Board{
		Players:     make([]rules.Standing, 0, len(ranked)),
		Week:        week,
		SeasonWeeks: seasonLength(season.Table),
	}
	for _, p := range ranked {
		b.Players = append(b.Players, rules.Standing{
			Name:          p.Name,
			Division:      p.Division,
			WinPercentage: p.WinPercentage,
			Streak:        p.CurrentStreak,
		})
	}
	return b, nil
}

// seasonLength counts week rows. Summary rows without a week number are skipped.
func seasonLength(t *sheet.Table) int {
	h, ok := sheet.WeekHeader(t)
	if !ok {
		return len(t.Rows)
	}
	n := 0
	for _, row := range t.Rows {
		if _, ok := sheet.WeekNumber(row[h]); ok {
			n++
		}
	}
	return n
}
