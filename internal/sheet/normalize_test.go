package sheet

import (
	"testing"

	"github.com/brycewandling-glitch/paper/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seasonGrid() Grid {
	return Grid{
		{"Week", "Date", "Mitch Bet Amount", "Mitch", "Mitch Win/Lose/Push", "Mitch Resolved", "Phil Bet Amount", "Phil", "Phil W/L/P", "Nathan Bet Amount", "Nathan", "Nathan Win/Lose/Push"},
		{"Week 1", "8/30/2025", "$5", "Texas -3 (legends)", "W", "Ohio State @ Texas (Texas -3)", "$5", "Kansas +7", "L", "$5", "Tail Mitch", "W"},
		{"Week 2", "9/6/2025", "$5", "Alabama (legends)", "win", "", "10", "Tail Mitch", "Loss", "", "", ""},
		{"Week 3", "9/13/2025", "abc", "Baylor +3 (leaders)", "Push", "", "$15.00", "Fade Mitch (leaders)", "?", "", "", ""},
		{"Week 4", "9/20/2025", "", "", "", "", "", "", "", "", "", ""},
	}
}

func TestDetectColumns(t *testing.T) {
	cols := DetectColumns(seasonGrid().Header())
	require.Len(t, cols, 3)

	assert.Equal(t, Columns{
		Name:     "Mitch",
		Bet:      "Mitch Bet Amount",
		Result:   "Mitch Win/Lose/Push",
		Pick:     "Mitch",
		Resolved: "Mitch Resolved",
	}, cols[0])
	assert.Equal(t, "", cols[1].Result, "W/L/P header has no win|lose|push keyword")
	assert.Equal(t, "Nathan Win/Lose/Push", cols[2].Result)
}

func TestDetectColumns_PrefixFallback(t *testing.T) {
	cols := DetectColumns([]string{"JB Bet Amount", "JB", "JB win/lose/push result"})
	require.Len(t, cols, 1)
	assert.Equal(t, "JB win/lose/push result", cols[0].Result)
}

func TestNormalize_CountsRecognizedResults(t *testing.T) {
	s := Normalize(seasonGrid().Table(), "Season 4", DefaultOptions())
	require.Len(t, s.Players, 3)

	mitch, ok := s.Player("mitch")
	require.True(t, ok)
	assert.Equal(t, 2, mitch.Wins)
	assert.Equal(t, 0, mitch.Losses)
	assert.Equal(t, 1, mitch.Pushes)
	assert.Equal(t, 10.0, mitch.BetTotal, "Unparsable amounts count as zero")
	assert.Equal(t, models.DivisionLeaders, mitch.Division, "Latest tag wins")
	assert.Equal(t, []models.Outcome{"W", "W", "P", ""}, mitch.Outcomes()[:4])
	assert.Equal(t, "Ohio State @ Texas (Texas -3)", mitch.Facts[0].Resolved)
	assert.Equal(t, 1, mitch.Facts[0].Week)

	// win+loss+push equals rows with a recognized code
	for _, p := range s.Players {
		recognized := 0
		for _, o := range p.Outcomes() {
			if o.IsRecorded() {
				recognized++
			}
		}
		assert.Equal(t, recognized, p.Wins+p.Losses+p.Pushes, p.Name)
	}

	assert.Equal(t, 3, s.CompletedWeeks)
}

func TestNormalize_ExclusionsAndUntaggedSeasons(t *testing.T) {
	s := Normalize(seasonGrid().Table(), "Season 3", DefaultOptions())

	assert.Equal(t, []string{"Mitch", "Phil"}, s.Names())
	mitch, _ := s.Player("Mitch")
	assert.Equal(t, models.DivisionLeaders, mitch.Division)
	assert.Equal(t, models.DivisionLegends, mitch.Facts[0].Division, "Per-week tags are still read")
}

func TestNormalize_TotalsOverride(t *testing.T) {
	g := Grid{
		{"Week", "Cory Bet Amount", "Cory", "Cory Win/Lose/Push", "TOTALS", "Cory Totals", "Kyle Bet Amount", "Kyle Win/Lose/Push", "Kyle Totals"},
		{"1", "$5", "Texas", "#NAME?", "Total Wins", "7", "$5", "W", "9"},
		{"2", "$5", "Iowa", "#NAME?", "Total Losses", "3", "$5", "L", "9"},
		{"3", "$5", "Utah", "", "Total Pushes", "1", "$5", "", "1"},
		{"4", "", "", "", "Win Percentage", "70%", "", "", "50"},
	}

	s := Normalize(g.Table(), "Season 4", DefaultOptions())

	cory, _ := s.Player("Cory")
	assert.True(t, cory.TotalsOverride)
	assert.Equal(t, 7, cory.Wins)
	assert.Equal(t, 3, cory.Losses)
	assert.Equal(t, 1, cory.Pushes)
	require.NotNil(t, cory.TotalsWinPct)
	assert.Equal(t, 70.0, *cory.TotalsWinPct)
	require.NotNil(t, cory.AllTimeWinPct)
	assert.Equal(t, 70.0, *cory.AllTimeWinPct)

	kyle, _ := s.Player("Kyle")
	assert.False(t, kyle.TotalsOverride, "Weekly counts win when they exist")
	assert.Equal(t, 1, kyle.Wins)
	assert.Equal(t, 1, kyle.Losses)
	require.NotNil(t, kyle.AllTimeWinPct)
	assert.Equal(t, 50.0, *kyle.AllTimeWinPct)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 15.0, ParseAmount("$15"))
	assert.Equal(t, 12.5, ParseAmount(" 12.50 "))
	assert.Equal(t, 0.0, ParseAmount("n/a"))
	assert.Equal(t, 0.0, ParseAmount(""))
}
