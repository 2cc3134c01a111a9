package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officegames/rating-system/models"
)

func newLeaderboardFixture(t *testing.T, pointsByPlayer map[int]int) (LeaderboardService, *fakeRatingRepo) {
	t.Helper()
	ratings := newFakeRatingRepo()
	ctx := context.Background()
	// Seed in ascending player id order so rating ids are deterministic.
	for playerID := 1; playerID <= len(pointsByPlayer); playerID++ {
		points, ok := pointsByPlayer[playerID]
		require.True(t, ok, "players must be numbered 1..n")
		_, err := ratings.GetOrCreateForUpdate(ctx, nil, 1, playerID, points)
		require.NoError(t, err)
	}
	game := &models.Game{ID: 1, OfficeID: 1, Name: "Foosball", Slug: "foosball", MaxPlayersPerTeam: 2}
	return NewLeaderboardService(ratings, newFakeGameRepo(game)), ratings
}

func TestLeaderboardOrdering(t *testing.T) {
	svc, _ := newLeaderboardFixture(t, map[int]int{1: 100, 2: 150, 3: 150, 4: 80})

	page, err := svc.GetPage(context.Background(), 1, 10, nil)
	require.NoError(t, err)
	require.Len(t, page.Positions, 4)

	// Points descending, rating id ascending on ties.
	assert.Equal(t, []int{2, 3, 1, 4}, playerIDs(page.Positions))
	assert.Nil(t, page.NextCursor, "short page is the last page")
}

func TestLeaderboardPaginationIsStable(t *testing.T) {
	points := make(map[int]int, 25)
	for i := 1; i <= 25; i++ {
		// Heavy ties: only five distinct scores across 25 players.
		points[i] = 100 + (i % 5)
	}
	svc, _ := newLeaderboardFixture(t, points)
	ctx := context.Background()

	seen := make(map[int]bool)
	var cursor *int
	pages := 0
	for {
		page, err := svc.GetPage(ctx, 1, 10, cursor)
		require.NoError(t, err)
		pages++

		for _, pos := range page.Positions {
			assert.False(t, seen[pos.PlayerID], "player %d repeated across pages", pos.PlayerID)
			seen[pos.PlayerID] = true
		}
		if page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
		require.Less(t, pages, 10, "pagination must terminate")
	}

	assert.Len(t, seen, 25, "no player skipped across page boundaries")
}

func TestLeaderboardPageSizeBounds(t *testing.T) {
	points := make(map[int]int, 30)
	for i := 1; i <= 30; i++ {
		points[i] = 100
	}
	svc, _ := newLeaderboardFixture(t, points)
	ctx := context.Background()

	page, err := svc.GetPage(ctx, 1, 0, nil)
	require.NoError(t, err)
	assert.Len(t, page.Positions, DefaultPageSize)

	page, err = svc.GetPage(ctx, 1, 1000, nil)
	require.NoError(t, err)
	assert.Len(t, page.Positions, MaxPageSize)
	require.NotNil(t, page.NextCursor)
}

func TestLeaderboardFullFinalPage(t *testing.T) {
	svc, _ := newLeaderboardFixture(t, map[int]int{1: 100, 2: 90})

	page, err := svc.GetPage(context.Background(), 1, 2, nil)
	require.NoError(t, err)
	require.Len(t, page.Positions, 2)
	require.NotNil(t, page.NextCursor, "a full page always advertises a cursor")

	next, err := svc.GetPage(context.Background(), 1, 2, page.NextCursor)
	require.NoError(t, err)
	assert.Empty(t, next.Positions)
	assert.Nil(t, next.NextCursor)
}

func TestLeaderboardUnknownGame(t *testing.T) {
	svc, _ := newLeaderboardFixture(t, map[int]int{1: 100})
	_, err := svc.GetPage(context.Background(), 42, 10, nil)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func playerIDs(positions []models.LeaderboardPosition) []int {
	ids := make([]int, len(positions))
	for i, pos := range positions {
		ids[i] = pos.PlayerID
	}
	return ids
}
