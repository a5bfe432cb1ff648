package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brycewandling-glitch/paper/internal/teams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoreboardJSON = `{
  "events": [{
    "id": "401",
    "name": "Ohio State Buckeyes at Texas Longhorns",
    "shortName": "OSU @ TEX",
    "date": "2025-08-30T16:00Z",
    "status": {"type": {"state": "post", "shortDetail": "Final", "completed": true}},
    "competitions": [{
      "id": "401",
      "date": "2025-08-30T16:00Z",
      "venue": {"fullName": "DKR Stadium", "address": {"city": "Austin", "state": "TX"}},
      "competitors": [
        {"homeAway": "home", "score": "24", "team": {"id": "251", "name": "Longhorns", "abbreviation": "TEX", "displayName": "Texas Longhorns", "shortDisplayName": "Texas"}},
        {"homeAway": "away", "score": "20", "team": {"id": "194", "name": "Buckeyes", "abbreviation": "OSU", "displayName": "Ohio State Buckeyes", "shortDisplayName": "Ohio State"}}
      ],
      "odds": [{"details": "TEX -3.5", "overUnder": 48.5, "spread": -3.5}],
      "broadcasts": [{"market": "national", "names": ["FOX"]}],
      "status": {"type": {"state": "post", "shortDetail": "Final", "completed": true}}
    }]
  }]
}`

func TestESPNClient_FetchScoreboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/football/college-football/scoreboard", r.URL.Path)
		assert.Equal(t, "20250830-20250906", r.URL.Query().Get("dates"))
		assert.Equal(t, "80", r.URL.Query().Get("groups"))
		_, _ = w.Write([]byte(scoreboardJSON))
	}))
	defer server.Close()

	c := NewESPNClient(server.URL, 2*time.Second)
	start := time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)
	events, err := c.FetchScoreboard(context.Background(), teams.SportNCAAF, start, start.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, events, 1)

	comp := events[0].Competitions[0]
	home, ok := comp.Competitor("home")
	require.True(t, ok)
	assert.Equal(t, "Texas Longhorns", home.Team.DisplayName)
	assert.Equal(t, "24", home.Score)
	require.NotNil(t, comp.Odds[0].OverUnder)
	assert.Equal(t, 48.5, *comp.Odds[0].OverUnder)
	assert.Equal(t, "Austin", comp.Venue.Address.City)

	d, ok := ParseEventDate(events[0].Date)
	require.True(t, ok)
	assert.Equal(t, 16, d.Hour())
}

func TestESPNClient_RetriesRetryableStatus(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"events": []}`))
	}))
	defer server.Close()

	c := NewESPNClient(server.URL, 2*time.Second, WithRetryDelay(time.Millisecond))
	now := time.Now()
	events, err := c.FetchScoreboard(context.Background(), teams.SportNFL, now, now)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestESPNClient_NoRetryOnNotFound(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewESPNClient(server.URL, 2*time.Second, WithRetryDelay(time.Millisecond))
	now := time.Now()
	_, err := c.FetchScoreboard(context.Background(), teams.SportNBA, now, now)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
