package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brycewandling-glitch/paper/internal/client"
	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/sheet"
	"github.com/brycewandling-glitch/paper/internal/teams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	events []client.Event
	err    error

	calls      int
	sport      teams.Sport
	start, end time.Time
}

func (f *fakeCatalog) FetchScoreboard(_ context.Context, sport teams.Sport, start, end time.Time) ([]client.Event, error) {
	f.calls++
	f.sport, f.start, f.end = sport, start, end
	return f.events, f.err
}

func floatPtr(v float64) *float64 { return &v }

func competitor(homeAway, display, name, abbrev, score string) client.Competitor {
	return client.Competitor{
		HomeAway: homeAway,
		Score:    score,
		Team:     client.Team{DisplayName: display, Name: name, Abbreviation: abbrev, ShortDisplayName: display},
	}
}

func texasOhioState(state string) client.Event {
	comp := client.Competition{
		Date: "2025-08-30T16:00Z",
		Competitors: []client.Competitor{
			competitor("home", "Texas Longhorns", "Longhorns", "TEX", "24"),
			competitor("away", "Ohio State Buckeyes", "Buckeyes", "OSU", "20"),
		},
		Odds:       []client.Odds{{Details: "TEX -3.5", OverUnder: floatPtr(48.5)}},
		Broadcasts: []client.Broadcast{{Names: []string{"FOX"}}, {Names: []string{"ESPN+"}}},
	}
	comp.Status.Type.State = state
	return client.Event{ID: "401", Name: "Ohio State Buckeyes at Texas Longhorns", Competitions: []client.Competition{comp}}
}

var weekOf = time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)

func TestESPNStrategy_Resolve_Spread(t *testing.T) {
	cat := &fakeCatalog{events: []client.Event{texasOhioState("post")}}
	s := NewESPNStrategy(cat, nil, time.Second)

	res, err := s.Resolve(context.Background(), Request{Week: 1, WeekDate: weekOf, Text: "Texas -3 (legends)"})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "Ohio State Buckeyes @ Texas Longhorns (Texas Longhorns -3)", res.ResolvedText)
	assert.Equal(t, weekOf.AddDate(0, 0, 7), cat.end, "Search window spans one week")

	g := res.Game
	require.NotNil(t, g)
	assert.Equal(t, models.GameFinal, g.Status)
	assert.Equal(t, []string{"FOX", "ESPN+"}, g.Broadcasts)
	assert.Equal(t, "TEX", g.FavoriteTeam)
	require.NotNil(t, g.HomeScore)
	assert.Equal(t, 24, *g.HomeScore)
}

func TestESPNStrategy_Resolve_DerivesLineFromFavorite(t *testing.T) {
	cat := &fakeCatalog{events: []client.Event{texasOhioState("pre")}}
	s := NewESPNStrategy(cat, nil, time.Second)

	res, err := s.Resolve(context.Background(), Request{WeekDate: weekOf, Text: "Ohio State"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Ohio State Buckeyes @ Texas Longhorns (Ohio State Buckeyes +3.5)", res.ResolvedText)
	assert.Equal(t, models.GameScheduled, res.Game.Status)

	res, err = s.Resolve(context.Background(), Request{WeekDate: weekOf, Text: "Longhorns"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Ohio State Buckeyes @ Texas Longhorns (Texas Longhorns -3.5)", res.ResolvedText)
}

func TestESPNStrategy_Resolve_Totals(t *testing.T) {
	cat := &fakeCatalog{events: []client.Event{texasOhioState("in")}}
	s := NewESPNStrategy(cat, nil, time.Second)

	res, err := s.Resolve(context.Background(), Request{WeekDate: weekOf, Text: "Texas Over 52"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Ohio State Buckeyes @ Texas Longhorns (Over 52)", res.ResolvedText)
	assert.Equal(t, models.GameLive, res.Game.Status)

	res, err = s.Resolve(context.Background(), Request{WeekDate: weekOf, Text: "Ohio State under Texas"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Ohio State Buckeyes @ Texas Longhorns (Under 48.5)", res.ResolvedText, "Event total fills a missing threshold")
	assert.Equal(t, "Under", res.Game.MatchedTeam)
}

func TestESPNStrategy_Resolve_TwoTeamNeedsBothSides(t *testing.T) {
	cat := &fakeCatalog{events: []client.Event{texasOhioState("pre")}}
	s := NewESPNStrategy(cat, nil, time.Second)

	res, err := s.Resolve(context.Background(), Request{WeekDate: weekOf, Text: "Texas/Alabama"})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestESPNStrategy_Resolve_TwoTeamCoversEachSide(t *testing.T) {
	cat := &fakeCatalog{events: []client.Event{texasOhioState("pre")}}
	s := NewESPNStrategy(cat, nil, time.Second)

	res, err := s.Resolve(context.Background(), Request{WeekDate: weekOf, Text: "Buckeyes/OSU"})
	require.NoError(t, err)
	assert.Nil(t, res, "Two names for the same side do not cover the game")

	for _, text := range []string{"Texas/Ohio State", "Ohio State/Texas"} {
		res, err = s.Resolve(context.Background(), Request{WeekDate: weekOf, Text: text})
		require.NoError(t, err)
		assert.NotNil(t, res, text)
	}
}

func TestESPNStrategy_Resolve_NoWeekDate(t *testing.T) {
	cat := &fakeCatalog{events: []client.Event{texasOhioState("pre")}}
	s := NewESPNStrategy(cat, nil, time.Second)

	res, err := s.Resolve(context.Background(), Request{Text: "Texas -3"})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 0, cat.calls)
}

func TestESPNStrategy_Lookup(t *testing.T) {
	cat := &fakeCatalog{events: []client.Event{texasOhioState("post")}}
	s := NewESPNStrategy(cat, nil, time.Second)
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	resolved := "Ohio State Buckeyes @ Texas Longhorns (Texas Longhorns -3)"
	g, err := s.Lookup(context.Background(), resolved, teams.SportNCAAF)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, resolved, g.ResolvedText)
	assert.Equal(t, "Texas Longhorns -3", g.MatchedTeam)
	assert.Equal(t, now.AddDate(0, 0, -3), cat.start)
	assert.True(t, g.IsFinal())

	g, err = s.Lookup(context.Background(), "Texas Longhorns @ Ohio State Buckeyes", teams.SportNCAAF)
	require.NoError(t, err)
	assert.Nil(t, g, "Home and away must line up")

	g, err = s.Lookup(context.Background(), "not a game", teams.SportNCAAF)
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestFindGame(t *testing.T) {
	g, ok := FindGame(Schedule2025, "kansas", floatPtr(-14), time.Time{}, 1)
	require.True(t, ok)
	assert.Equal(t, "Fresno State", g.Home)
	assert.Equal(t, "Kansas @ Fresno State (+14)", FormatGame(g))

	g, ok = FindGame(Schedule2025, "kansas", floatPtr(-52), time.Time{}, 1)
	require.True(t, ok)
	assert.Equal(t, "Kansas State", g.Home, "Spread within a point wins over list order")

	_, ok = FindGame(Schedule2025, "texas", nil, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), 2)
	assert.False(t, ok, "Outside the date window")

	_, ok = FindGame(Schedule2025, "", nil, time.Time{}, 1)
	assert.False(t, ok)
}

func TestFormatGame_NoLine(t *testing.T) {
	g, ok := FindGame(Schedule2025, "marshall", nil, time.Time{}, 2)
	require.True(t, ok)
	assert.Equal(t, "Marshall @ Ohio State", FormatGame(g))
}

func TestSplitTeamSpread(t *testing.T) {
	team, spread := SplitTeamSpread("Kansas +14 (leaders)")
	assert.Equal(t, "Kansas", team)
	require.NotNil(t, spread)
	assert.Equal(t, 14.0, *spread)

	team, spread = SplitTeamSpread("Navy")
	assert.Equal(t, "Navy", team)
	assert.Nil(t, spread)
}

func scheduleSource() *sheet.MemorySource {
	return sheet.NewMemorySource(map[string]sheet.Grid{
		"Season 4": {
			{"Week", "Date", "Mitch Bet Amount", "Mitch"},
			{"1", "8/30/2025", "$5", "Navy -7"},
			{"2", "9/6/2025", "$5", ""},
		},
		"Season 4 Schedule": {
			{"Date", "Matchup", "Line"},
			{"8/30/2025", "Temple at Navy", "-7.5"},
			{"8/31/2025", "Army vs Tulane", "3"},
			{"9/6/2025", "Rice at Navy", "-20"},
		},
	})
}

func TestCandidates(t *testing.T) {
	src := scheduleSource()

	got, err := Candidates(context.Background(), src, "Season 4", 1, "Navy -7", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Navy", got[0].Home)
	assert.Equal(t, "Temple", got[0].Away)
	require.NotNil(t, got[0].Spread)
	assert.Equal(t, -7.5, *got[0].Spread)
	assert.Equal(t, "Temple @ Navy (-7.5)", FormatCandidate(got[0]))

	got, err = Candidates(context.Background(), src, "Season 4", 1, "Navy -14", nil)
	require.NoError(t, err)
	assert.Empty(t, got, "Spread more than a point off is rejected")

	got, err = Candidates(context.Background(), src, "Season 4", 2, "Navy", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rice", got[0].Away)
}

func TestChain_Resolve(t *testing.T) {
	src := scheduleSource()
	failing := &fakeCatalog{err: errors.New("connection refused")}
	chain := NewDefaultChain(failing, src, nil, time.Second)

	res := chain.Resolve(context.Background(), Request{Sheet: "Season 4", Week: 1, WeekDate: weekOf, Text: "Navy -7"})
	require.NotNil(t, res)
	assert.Equal(t, "sheet_schedule", res.Strategy, "Catalog failure falls through to the next strategy")
	assert.Equal(t, "Temple @ Navy (-7.5)", res.ResolvedText)

	res = chain.Resolve(context.Background(), Request{Sheet: "Season 4", Week: 1, WeekDate: weekOf, Text: "Gonzaga -3"})
	require.NotNil(t, res)
	assert.Equal(t, "fallback", res.Strategy)
	assert.Equal(t, "Gonzaga (Gonzaga -3)", res.ResolvedText)

	res = chain.Resolve(context.Background(), Request{Sheet: "Season 4", Week: 1, WeekDate: time.Date(2025, 8, 22, 0, 0, 0, 0, time.UTC), Text: "Kansas +14"})
	require.NotNil(t, res)
	assert.Equal(t, "static_schedule", res.Strategy)
	assert.Equal(t, "Kansas @ Fresno State (+14)", res.ResolvedText)
}
