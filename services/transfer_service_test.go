package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officegames/rating-system/models"
)

func seedRatings(t *testing.T, repo *fakeRatingRepo, gameID int, playerIDs ...int) []*models.PlayerRating {
	t.Helper()
	rows := make([]*models.PlayerRating, len(playerIDs))
	for i, playerID := range playerIDs {
		row, err := repo.GetOrCreateForUpdate(context.Background(), nil, gameID, playerID, 100)
		require.NoError(t, err)
		rows[i] = row
	}
	return rows
}

func TestMoveMatchPointsOneVersusOne(t *testing.T) {
	repo := newFakeRatingRepo()
	rows := seedRatings(t, repo, 1, 1, 2)
	svc := NewTransferService(repo)

	err := svc.MoveMatchPoints(context.Background(), nil, TransferParams{
		PointsToMove: 25,
		LeftToRight:  false,
		Left:         rows[:1],
		Right:        rows[1:],
	})
	require.NoError(t, err)

	assert.Equal(t, 125, repo.pointsOf(1, 1))
	assert.Equal(t, 75, repo.pointsOf(1, 2))
}

func TestMoveMatchPointsDirection(t *testing.T) {
	repo := newFakeRatingRepo()
	rows := seedRatings(t, repo, 1, 1, 2)
	svc := NewTransferService(repo)

	err := svc.MoveMatchPoints(context.Background(), nil, TransferParams{
		PointsToMove: 10,
		LeftToRight:  true,
		Left:         rows[:1],
		Right:        rows[1:],
	})
	require.NoError(t, err)

	assert.Equal(t, 90, repo.pointsOf(1, 1), "LeftToRight means the left side pays")
	assert.Equal(t, 110, repo.pointsOf(1, 2))
}

func TestMoveMatchPointsUnevenSplit(t *testing.T) {
	repo := newFakeRatingRepo()
	rows := seedRatings(t, repo, 1, 1, 2, 3)
	svc := NewTransferService(repo)

	// 25 points from one loser to two winners: shares 13 and 12.
	err := svc.MoveMatchPoints(context.Background(), nil, TransferParams{
		PointsToMove: 25,
		LeftToRight:  true,
		Left:         rows[:1],
		Right:        rows[1:],
	})
	require.NoError(t, err)

	assert.Equal(t, 75, repo.pointsOf(1, 1))
	assert.Equal(t, 113, repo.pointsOf(1, 2))
	assert.Equal(t, 112, repo.pointsOf(1, 3))
	assert.Equal(t, 300, repo.totalPoints())
}

func TestMoveMatchPointsSplitIgnoresSideOrder(t *testing.T) {
	repo := newFakeRatingRepo()
	rows := seedRatings(t, repo, 1, 1, 2, 3)
	svc := NewTransferService(repo)

	// The same side handed over in descending order must produce the same
	// per-player shares: the odd remainder belongs to the lowest player id,
	// not to whoever happens to come first in the slice.
	err := svc.MoveMatchPoints(context.Background(), nil, TransferParams{
		PointsToMove: 25,
		LeftToRight:  true,
		Left:         rows[:1],
		Right:        []*models.PlayerRating{rows[2], rows[1]},
	})
	require.NoError(t, err)

	assert.Equal(t, 75, repo.pointsOf(1, 1))
	assert.Equal(t, 113, repo.pointsOf(1, 2))
	assert.Equal(t, 112, repo.pointsOf(1, 3))
}

func TestMoveMatchPointsZeroIsNoop(t *testing.T) {
	repo := newFakeRatingRepo()
	rows := seedRatings(t, repo, 1, 1, 2)
	svc := NewTransferService(repo)

	err := svc.MoveMatchPoints(context.Background(), nil, TransferParams{
		PointsToMove: 0,
		Left:         rows[:1],
		Right:        rows[1:],
	})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.addPointsCalls)
}

func TestMoveMatchPointsRejectsBadInput(t *testing.T) {
	repo := newFakeRatingRepo()
	rows := seedRatings(t, repo, 1, 1)
	svc := NewTransferService(repo)

	err := svc.MoveMatchPoints(context.Background(), nil, TransferParams{
		PointsToMove: -5,
		Left:         rows,
		Right:        rows,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	err = svc.MoveMatchPoints(context.Background(), nil, TransferParams{
		PointsToMove: 5,
		Left:         rows,
		Right:        nil,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestMoveMatchPointsWrapsRepoFailure(t *testing.T) {
	repo := newFakeRatingRepo()
	rows := seedRatings(t, repo, 1, 1, 2)
	repo.failOnAddPoints = 1
	svc := NewTransferService(repo)

	err := svc.MoveMatchPoints(context.Background(), nil, TransferParams{
		PointsToMove: 25,
		Left:         rows[:1],
		Right:        rows[1:],
	})
	assert.ErrorIs(t, err, ErrTransferFailed)
}
