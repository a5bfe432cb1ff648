package grading

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/sheet"
	"github.com/brycewandling-glitch/paper/internal/teams"
)

func intPtr(v int) *int { return &v }

func weekSource() *sheet.MemorySource {
	return sheet.NewMemorySource(map[string]sheet.Grid{"Season 4": {
		{"Week", "Date",
			"Mitch Bet Amount", "Mitch", "Mitch Win/Lose/Push", "Mitch Resolved",
			"Phil Bet Amount", "Phil", "Phil Win/Lose/Push",
			"JB Bet Amount", "JB", "JB Win/Lose/Push",
			"Cory Bet Amount", "Cory", "Cory Win/Lose/Push"},
		{"1", "8/30/2025",
			"$10", "Texas -3 (legends)", "", "Ohio State @ Texas (Texas -3)",
			"", "Mitch (leaders)", "",
			"$5", "Fade Mitch", "",
			"$5", "Kansas +7 (leaders)", "L"},
	}})
}

type stubGames struct {
	mu     sync.Mutex
	status models.GameStatus
	err    error
	calls  int
}

func (s *stubGames) Lookup(_ context.Context, resolved string, _ teams.Sport) (*models.GameDetails, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return &models.GameDetails{
		HomeTeam:     "Texas",
		AwayTeam:     "Ohio State",
		HomeScore:    intPtr(24),
		AwayScore:    intPtr(20),
		Status:       s.status,
		ResolvedText: resolved,
	}, nil
}

func decisionsByPlayer(r *Report) map[string]Decision {
	out := make(map[string]Decision, len(r.Decisions))
	for _, d := range r.Decisions {
		out[d.Player] = d
	}
	return out
}

func TestGrader_GradeWeek(t *testing.T) {
	src := weekSource()
	games := &stubGames{status: models.GameFinal}

	report, err := New(src, games, sheet.DefaultOptions()).GradeWeek(context.Background(), "Season 4", 1, false)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Written)
	assert.Equal(t, 1, games.calls, "Only the original pick is looked up")

	d := decisionsByPlayer(report)
	assert.Equal(t, ActionGraded, d["Mitch"].Action)
	assert.Equal(t, models.ResultWin, d["Mitch"].Result)
	assert.Equal(t, ActionPropagated, d["Phil"].Action)
	assert.Equal(t, models.ResultLoss, d["JB"].Result)
	assert.Equal(t, ActionSkipped, d["Cory"].Action)

	g := src.Snapshot("Season 4")
	assert.Equal(t, "W", g.Cell(1, 4))
	assert.Equal(t, "W", g.Cell(1, 8))
	assert.Equal(t, "L", g.Cell(1, 11))
	assert.Equal(t, "L", g.Cell(1, 14), "Recorded results are untouched")
}

func TestGrader_GradeWeek_DryRun(t *testing.T) {
	src := weekSource()
	report, err := New(src, &stubGames{status: models.GameFinal}, sheet.DefaultOptions()).
		GradeWeek(context.Background(), "Season 4", 1, true)
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, 3, report.Written)
	assert.Empty(t, src.Snapshot("Season 4").Cell(1, 4), "Dry run leaves the sheet alone")
}

func TestGrader_GradeWeek_GameInProgress(t *testing.T) {
	src := weekSource()
	report, err := New(src, &stubGames{status: models.GameLive}, sheet.DefaultOptions()).
		GradeWeek(context.Background(), "Season 4", 1, false)
	require.NoError(t, err)

	assert.Zero(t, report.Written)
	d := decisionsByPlayer(report)
	assert.Equal(t, ActionPending, d["Mitch"].Action)
	assert.Equal(t, "game live", d["Mitch"].Reason)
	assert.Equal(t, models.ResultPending, d["Phil"].Result)
}

func TestGrader_GradeWeek_LookupFailure(t *testing.T) {
	src := weekSource()
	report, err := New(src, &stubGames{err: errors.New("timeout")}, sheet.DefaultOptions()).
		GradeWeek(context.Background(), "Season 4", 1, false)
	require.NoError(t, err, "Lookup failures leave picks pending")
	assert.Equal(t, "lookup failed", decisionsByPlayer(report)["Mitch"].Reason)
}

func TestGrader_GradeWeek_UnknownWeek(t *testing.T) {
	_, err := New(weekSource(), &stubGames{}, sheet.DefaultOptions()).
		GradeWeek(context.Background(), "Season 4", 5, false)
	assert.True(t, errors.Is(err, sheet.ErrWeekNotFound))
}

type fixedGame struct {
	game models.GameDetails
}

func (f fixedGame) Lookup(_ context.Context, resolved string, _ teams.Sport) (*models.GameDetails, error) {
	g := f.game
	g.ResolvedText = resolved
	return &g, nil
}

func TestGrader_GradeWeek_ScheduleResolvedPicks(t *testing.T) {
	src := sheet.NewMemorySource(map[string]sheet.Grid{"Season 4": {
		{"Week", "Date",
			"Mitch Bet Amount", "Mitch", "Mitch Win/Lose/Push", "Mitch Resolved",
			"Phil Bet Amount", "Phil", "Phil Win/Lose/Push", "Phil Resolved"},
		{"1", "8/30/2025",
			"$10", "Kansas +14 (legends)", "", "Kansas @ Fresno State (+14)",
			"$5", "Under 55.5", "", "Kansas @ Fresno State"},
	}})
	games := fixedGame{game: models.GameDetails{
		HomeTeam:  "Fresno State Bulldogs",
		AwayTeam:  "Kansas Jayhawks",
		HomeScore: intPtr(31),
		AwayScore: intPtr(20),
		Status:    models.GameFinal,
	}}

	report, err := New(src, games, sheet.DefaultOptions()).GradeWeek(context.Background(), "Season 4", 1, false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Written)

	d := decisionsByPlayer(report)
	assert.Equal(t, models.ResultWin, d["Mitch"].Result, "The line comes from the schedule, the team from the pick")
	assert.Equal(t, models.ResultWin, d["Phil"].Result)

	g := src.Snapshot("Season 4")
	assert.Equal(t, "W", g.Cell(1, 4))
	assert.Equal(t, "W", g.Cell(1, 8))
}
