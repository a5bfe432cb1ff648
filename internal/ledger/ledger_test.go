package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/picks"
	"github.com/brycewandling-glitch/paper/internal/repository"
	"github.com/brycewandling-glitch/paper/internal/resolver"
	"github.com/brycewandling-glitch/paper/internal/sheet"
)

func seasonSource() *sheet.MemorySource {
	return sheet.NewMemorySource(map[string]sheet.Grid{
		"Season 4": {
			{"Week", "Date", "Mitch Bet Amount", "Mitch", "Mitch Resolved", "Mitch Win/Lose/Push", "Phil Bet Amount", "Phil", "Phil Win/Lose/Push"},
			{"Week 1", "8/30/2025", "$5", "Texas -3", "", "W", "$5", "Mitch", ""},
			{"Week 2", "9/6/2025"},
		},
	})
}

type stubResolver struct {
	reqs []resolver.Request
}

func (s *stubResolver) Resolve(_ context.Context, req resolver.Request) *models.Resolution {
	s.reqs = append(s.reqs, req)
	return &models.Resolution{ResolvedText: "Kansas @ Fresno State (+14)", Strategy: "static_schedule"}
}

type memoryAudit struct {
	mu   sync.Mutex
	recs []*repository.ResolutionRecord
}

func (m *memoryAudit) Record(_ context.Context, rec *repository.ResolutionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return nil
}

func TestLedger_SubmitPick(t *testing.T) {
	src := seasonSource()
	res := &stubResolver{}
	audit := &memoryAudit{}
	l := New(src, res, WithAuditLog(audit))

	w, err := l.SubmitPick(context.Background(), "Season 4", Entry{
		Week:     2,
		Player:   "mitch",
		Amount:   10,
		Pick:     "Kansas +14",
		Division: models.DivisionLegends,
	})
	require.NoError(t, err)

	assert.Equal(t, "$10", w.BetAmount)
	assert.Equal(t, "Kansas +14 (legends)", w.Pick)
	assert.Equal(t, "Kansas @ Fresno State (+14)", w.Resolved)

	g := src.Snapshot("Season 4")
	assert.Equal(t, "$10", g.Cell(2, 2))
	assert.Equal(t, "Kansas +14 (legends)", g.Cell(2, 3))
	assert.Equal(t, "Kansas @ Fresno State (+14)", g.Cell(2, 4))

	require.Len(t, res.reqs, 1)
	assert.Equal(t, 2, res.reqs[0].Week)
	assert.False(t, res.reqs[0].WeekDate.IsZero(), "Week date comes from the sheet")

	require.Len(t, audit.recs, 1)
	assert.Equal(t, repository.SourceSubmit, audit.recs[0].Source)
	assert.Equal(t, "static_schedule", audit.recs[0].Strategy)
}

func TestLedger_SubmitPick_Tail(t *testing.T) {
	src := seasonSource()
	res := &stubResolver{}
	l := New(src, res)

	w, err := l.SubmitPick(context.Background(), "Season 4", Entry{
		Week:   2,
		Player: "Mitch",
		Amount: 5,
		Pick:   "Phil",
		Tail:   picks.TailReverse,
		Target: "Phil",
	})
	require.NoError(t, err)
	assert.Equal(t, "Reverse Tail Phil", w.Resolved)
	assert.Empty(t, res.reqs, "Tails are not resolved")
}

func TestLedger_SubmitPick_PlayerNameIsTail(t *testing.T) {
	src := seasonSource()
	res := &stubResolver{}
	l := New(src, res)

	w, err := l.SubmitPick(context.Background(), "Season 4", Entry{Week: 2, Player: "Mitch", Amount: 5, Pick: "phil"})
	require.NoError(t, err)
	assert.Equal(t, "Tail Phil", w.Resolved)
	assert.Equal(t, "tail", w.Strategy)
	assert.Empty(t, res.reqs, "A named player is never sent to the resolver")
	assert.Equal(t, "Tail Phil", src.Snapshot("Season 4").Cell(2, 4))
}

func TestLedger_SubmitPick_NoResolvedColumn(t *testing.T) {
	src := seasonSource()
	w, err := New(src, &stubResolver{}).SubmitPick(context.Background(), "Season 4", Entry{
		Week: 2, Player: "Phil", Amount: 5, Pick: "Navy -7",
	})
	require.NoError(t, err)
	assert.Empty(t, w.Resolved)
	assert.Equal(t, "Navy -7", src.Snapshot("Season 4").Cell(2, 7))
}

func TestLedger_SubmitPick_Errors(t *testing.T) {
	l := New(seasonSource(), nil)

	_, err := l.SubmitPick(context.Background(), "Season 4", Entry{Week: 7, Player: "Mitch", Pick: "A"})
	assert.True(t, errors.Is(err, sheet.ErrWeekNotFound))

	_, err = l.SubmitPick(context.Background(), "Season 4", Entry{Week: 1, Player: "Nobody", Pick: "A"})
	assert.True(t, errors.Is(err, sheet.ErrColumnNotFound))

	_, err = l.SubmitPick(context.Background(), "Season 9", Entry{Week: 1, Player: "Mitch", Pick: "A"})
	assert.True(t, errors.Is(err, sheet.ErrEmptySheet))
}

func TestLedger_UpdateBets(t *testing.T) {
	src := seasonSource()
	updated, missing, err := New(src, nil).UpdateBets(context.Background(), "Season 4", 2, map[string]string{
		"Mitch":  "15",
		"phil":   "$5",
		"Nobody": "5",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Equal(t, []string{"Nobody"}, missing)

	g := src.Snapshot("Season 4")
	assert.Equal(t, "15", g.Cell(2, 2))
	assert.Equal(t, "$5", g.Cell(2, 6))
}

func TestLedger_SetResult(t *testing.T) {
	src := seasonSource()
	require.NoError(t, New(src, nil).SetResult(context.Background(), "Season 4", 1, "Phil", models.OutcomeLoss))
	assert.Equal(t, "L", src.Snapshot("Season 4").Cell(1, 8))
}

func TestLedger_AnnotateSeason(t *testing.T) {
	src := seasonSource()
	audit := &memoryAudit{}
	a, err := New(src, &stubResolver{}, WithAuditLog(audit)).AnnotateSeason(context.Background(), "Season 4")
	require.NoError(t, err)

	assert.Equal(t, []string{"Phil Resolved"}, a.Created, "Mitch already has a Resolved column")
	assert.Equal(t, 2, a.RowsWritten)

	g := src.Snapshot("Season 4")
	assert.Equal(t, "Phil Resolved", g.Cell(0, 8))
	assert.Equal(t, "Phil Win/Lose/Push", g.Cell(0, 9))
	assert.Equal(t, "Tail Mitch", g.Cell(1, 8), "A bare player name is a tail")

	require.Len(t, audit.recs, 1)
	assert.Equal(t, repository.SourceAnnotate, audit.recs[0].Source)
}
