//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brycewandling-glitch/paper/internal/models"
)

// Integration tests for database operations
// Run with: go test -v -tags=integration ./internal/repository/...

func setupTestDB(t *testing.T) (*Database, context.Context) {
	ctx := context.Background()

	cfg := Config{
		Host:     "localhost",
		Port:     "5432",
		Database: "paper_test",
		User:     "paper",
		Password: "paper",
		SSLMode:  "disable",
	}

	db, err := NewDatabase(ctx, cfg)
	require.NoError(t, err, "Failed to connect to test database")

	return db, ctx
}

func teardownTestDB(t *testing.T, db *Database) {
	db.Close()
}

func TestDatabaseConnection(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Health(ctx)
	assert.NoError(t, err, "Database health check should pass")

	stats := db.PoolStats()
	assert.GreaterOrEqual(t, stats["max_conns"].(int32), int32(1), "Should have at least 1 max connection")
}

func TestResolutionRepository_RecordAndList(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	season := "Test " + uuid.NewString()
	rec := &ResolutionRecord{
		Season:       season,
		Week:         3,
		Player:       "Mitch",
		PickText:     "Texas -3",
		ResolvedText: "Ohio State @ Texas (Texas -3)",
		Strategy:     "espn",
		Source:       SourceSubmit,
	}
	require.NoError(t, db.Resolutions.Record(ctx, rec))
	assert.NotEqual(t, uuid.Nil, rec.ID, "Record should assign an id")
	assert.False(t, rec.CreatedAt.IsZero())

	list, err := db.Resolutions.ListByWeek(ctx, season, 3)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec.ResolvedText, list[0].ResolvedText)

	list, err = db.Resolutions.ListByWeek(ctx, season, 4)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestResolutionRepository_RejectsInvalid(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Resolutions.Record(ctx, &ResolutionRecord{Season: "Season 4", Week: 0, Player: "Mitch", Source: SourceSubmit})
	assert.Error(t, err, "Week zero should be rejected")
}

func TestSnapshotRepository_SaveLatestPrune(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	season := "Test " + uuid.NewString()
	_, err := db.Snapshots.Latest(ctx, season)
	assert.True(t, errors.Is(err, ErrNotFound), "Missing season should be ErrNotFound")

	for _, weeks := range []int{1, 2} {
		snap := &Snapshot{
			WeekCount: weeks,
			Data: &models.SeasonData{
				Season:  season,
				Players: []*models.Player{{ID: 1, Name: "Mitch", Wins: weeks, SeasonRecord: "1-0-0"}},
			},
		}
		require.NoError(t, db.Snapshots.Save(ctx, snap))
		assert.Equal(t, season, snap.Season, "Season defaults to the data's season")
	}

	latest, err := db.Snapshots.Latest(ctx, season)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.WeekCount)
	require.Len(t, latest.Data.Players, 1)
	assert.Equal(t, 2, latest.Data.Players[0].Wins)

	removed, err := db.Snapshots.Prune(ctx, season, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}
