package sheet

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2025-08-30", "8/30/2025", "8/30/25", "08-30-2025", "Aug 30, 2025", "2025-08-30T19:30:00Z"} {
		got, ok := ParseDate(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseDate("TBD")
	assert.False(t, ok)
	_, ok = ParseDate("13/40/2025")
	assert.False(t, ok)
}

func TestFindWeekRow(t *testing.T) {
	tbl := seasonGrid().Table()

	row, idx, err := FindWeekRow(tbl, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "9/6/2025", row["Date"])

	_, _, err = FindWeekRow(tbl, 12)
	assert.True(t, errors.Is(err, ErrWeekNotFound))

	_, _, err = FindWeekRow(&Table{}, 1)
	assert.True(t, errors.Is(err, ErrEmptySheet))
}

func TestFindWeekRow_IndexFallback(t *testing.T) {
	tbl := Grid{{"Date", "Mitch"}, {"8/30/2025", "Texas"}, {"9/6/2025", "Iowa"}}.Table()

	row, idx, err := FindWeekRow(tbl, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Iowa", row["Mitch"])
}

func TestWeekDate(t *testing.T) {
	d, ok := WeekDate(seasonGrid().Table(), 3)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC), d)
}

func TestWeekCount(t *testing.T) {
	tbl := seasonGrid().Table()

	assert.Equal(t, 2, WeekCount(tbl, time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, WeekCount(tbl, time.Date(2025, 9, 6, 23, 0, 0, 0, time.UTC)), "Same-day rows count")
	assert.Equal(t, 4, WeekCount(tbl, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)), "No past rows falls back to all rows")

	undated := Grid{{"Week"}, {"1"}, {"2"}, {"3"}}.Table()
	assert.Equal(t, 3, WeekCount(undated, time.Now()))
}
