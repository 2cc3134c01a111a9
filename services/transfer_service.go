package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/officegames/rating-system/models"
	"github.com/officegames/rating-system/rating"
	"github.com/officegames/rating-system/repositories"
)

// TransferParams describes one point movement between the two sides of a
// match. Left and Right carry the locked rating rows of every member.
type TransferParams struct {
	PointsToMove int
	// LeftToRight is true when the left side pays the right side, i.e. the
	// right side won.
	LeftToRight bool
	Left        []*models.PlayerRating
	Right       []*models.PlayerRating
}

// TransferService is the point transfer executor. It runs entirely on the
// caller's transaction: a failure on any row aborts the whole transfer when
// the caller rolls back. It is not idempotent; callers guarantee at-most-once
// invocation per match.
type TransferService interface {
	MoveMatchPoints(ctx context.Context, exec repositories.SQLExecutor, params TransferParams) error
}

type transferService struct {
	ratingRepo repositories.RatingRepository
}

func NewTransferService(ratingRepo repositories.RatingRepository) TransferService {
	return &transferService{ratingRepo: ratingRepo}
}

func (s *transferService) MoveMatchPoints(ctx context.Context, exec repositories.SQLExecutor, params TransferParams) error {
	if params.PointsToMove < 0 {
		return fmt.Errorf("%w: negative transfer magnitude %d", ErrValidationFailed, params.PointsToMove)
	}
	if params.PointsToMove == 0 {
		return nil
	}
	if len(params.Left) == 0 || len(params.Right) == 0 {
		return fmt.Errorf("%w: transfer requires both sides", ErrValidationFailed)
	}

	winners, losers := params.Left, params.Right
	if params.LeftToRight {
		winners, losers = params.Right, params.Left
	}

	// Remainder shares go to the first members, so both sides are
	// canonicalized to ascending player id order. Match deletion replays the
	// split from stored rows whose order need not match the submitted roster;
	// without one fixed order the reversal would hand the remainder to a
	// different player.
	winners = sortedByPlayerID(winners)
	losers = sortedByPlayerID(losers)

	// One shared split routine on both sides: each side's shares sum to
	// exactly PointsToMove, so total credited equals total debited even for
	// uneven matchups (1v2, 2v3, ...).
	credits := rating.SplitPoints(params.PointsToMove, len(winners))
	debits := rating.SplitPoints(params.PointsToMove, len(losers))

	for i, member := range winners {
		if err := s.ratingRepo.AddPoints(ctx, exec, member.ID, credits[i]); err != nil {
			return fmt.Errorf("%w: crediting player %d: %w", ErrTransferFailed, member.PlayerID, err)
		}
	}
	for i, member := range losers {
		if err := s.ratingRepo.AddPoints(ctx, exec, member.ID, -debits[i]); err != nil {
			return fmt.Errorf("%w: debiting player %d: %w", ErrTransferFailed, member.PlayerID, err)
		}
	}
	return nil
}

func sortedByPlayerID(side []*models.PlayerRating) []*models.PlayerRating {
	sorted := make([]*models.PlayerRating, len(side))
	copy(sorted, side)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PlayerID < sorted[j].PlayerID })
	return sorted
}
