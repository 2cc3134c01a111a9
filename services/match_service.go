package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/officegames/rating-system/metrics"
	"github.com/officegames/rating-system/models"
	"github.com/officegames/rating-system/notifications"
	"github.com/officegames/rating-system/rating"
	"github.com/officegames/rating-system/repositories"
)

const (
	defaultMatchListLimit = 10
	maxMatchListLimit     = 50
)

type RecordMatchInput struct {
	GameID      int
	SeasonID    *int
	SubmitterID int
	Left        []RosterEntry
	Right       []RosterEntry
	LeftScore   int
	RightScore  int
}

type MatchService interface {
	// RecordMatch validates the submission, then atomically persists the match
	// and moves points from the losing side to the winning side. Tied scores
	// record the match with zero points and no transfer.
	RecordMatch(ctx context.Context, input RecordMatchInput) (*models.Match, error)
	// DeleteMatch removes a match and reverses its transfer exactly, so every
	// member's rating returns to its pre-match value.
	DeleteMatch(ctx context.Context, matchID, requesterID int) error
	ListByGame(ctx context.Context, gameID, limit int) ([]*models.Match, error)
}

type matchService struct {
	matchRepo    repositories.MatchRepository
	gameRepo     repositories.GameRepository
	seasonRepo   repositories.SeasonRepository
	ratingRepo   repositories.RatingRepository
	roster       RosterService
	transfer     TransferService
	tx           TxRunner
	notifier     notifications.Notifier
	metrics      *metrics.Metrics
	logger       *slog.Logger
	ratingConfig rating.Config
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	gameRepo repositories.GameRepository,
	seasonRepo repositories.SeasonRepository,
	ratingRepo repositories.RatingRepository,
	roster RosterService,
	transfer TransferService,
	tx TxRunner,
	notifier notifications.Notifier,
	m *metrics.Metrics,
	logger *slog.Logger,
	ratingConfig rating.Config,
) MatchService {
	return &matchService{
		matchRepo:    matchRepo,
		gameRepo:     gameRepo,
		seasonRepo:   seasonRepo,
		ratingRepo:   ratingRepo,
		roster:       roster,
		transfer:     transfer,
		tx:           tx,
		notifier:     notifier,
		metrics:      m,
		logger:       logger,
		ratingConfig: ratingConfig,
	}
}

func (s *matchService) RecordMatch(ctx context.Context, input RecordMatchInput) (*models.Match, error) {
	if input.LeftScore < 0 || input.RightScore < 0 {
		return nil, fmt.Errorf("%w: scores must be non-negative", ErrValidationFailed)
	}

	game, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", input.GameID, err)
	}

	if input.SeasonID != nil {
		season, seasonErr := s.seasonRepo.GetByID(ctx, *input.SeasonID)
		if seasonErr != nil {
			if errors.Is(seasonErr, repositories.ErrSeasonNotFound) {
				return nil, ErrSeasonNotFound
			}
			return nil, fmt.Errorf("failed to load season %d: %w", *input.SeasonID, seasonErr)
		}
		if season.GameID != game.ID {
			return nil, fmt.Errorf("%w: season %d does not belong to game %d", ErrValidationFailed, season.ID, game.ID)
		}
	}

	if len(input.Left) > game.MaxPlayersPerTeam || len(input.Right) > game.MaxPlayersPerTeam {
		return nil, fmt.Errorf("%w: invalid team length, allowed per team: %d", ErrInvalidRoster, game.MaxPlayersPerTeam)
	}

	var leftIDs, rightIDs []int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, resolveErr := s.roster.Resolve(gctx, input.Left)
		leftIDs = ids
		return resolveErr
	})
	g.Go(func() error {
		ids, resolveErr := s.roster.Resolve(gctx, input.Right)
		rightIDs = ids
		return resolveErr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	onLeft := make(map[int]bool, len(leftIDs))
	for _, id := range leftIDs {
		onLeft[id] = true
	}
	for _, id := range rightIDs {
		if onLeft[id] {
			return nil, fmt.Errorf("%w: player %d appears on both sides", ErrInvalidRoster, id)
		}
	}
	if !onLeft[input.SubmitterID] {
		return nil, fmt.Errorf("%w: matches can only be submitted by a member of the reporting side", ErrUnauthorized)
	}

	match := &models.Match{
		GameID:         game.ID,
		SeasonID:       input.SeasonID,
		LeftScore:      input.LeftScore,
		RightScore:     input.RightScore,
		LeftPlayerIDs:  leftIDs,
		RightPlayerIDs: rightIDs,
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		left, right, lockErr := s.lockRatings(ctx, exec, game.ID, leftIDs, rightIDs)
		if lockErr != nil {
			return lockErr
		}

		// Tied scores keep the match in the history but move nothing, so the
		// sum of all ratings stays invariant either way.
		if input.LeftScore != input.RightScore {
			leftAvg := rating.TeamAverage(ratingPoints(left))
			rightAvg := rating.TeamAverage(ratingPoints(right))
			match.Points = s.ratingConfig.MatchPoints(leftAvg, rightAvg, input.LeftScore-input.RightScore)
		}

		if createErr := s.matchRepo.Create(ctx, exec, match); createErr != nil {
			return s.mapMatchRepoError(createErr)
		}

		if match.Points > 0 {
			return s.transfer.MoveMatchPoints(ctx, exec, TransferParams{
				PointsToMove: match.Points,
				LeftToRight:  input.LeftScore < input.RightScore,
				Left:         left,
				Right:        right,
			})
		}
		return nil
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordFailures.Inc()
		}
		return nil, wrapTxFailure(err)
	}

	if s.metrics != nil {
		s.metrics.MatchesRecorded.Inc()
		s.metrics.PointsMoved.Add(float64(match.Points))
	}
	s.notify(ctx, notifications.EventMatchRecorded, game, match)
	return match, nil
}

func (s *matchService) DeleteMatch(ctx context.Context, matchID, requesterID int) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	if !containsInt(match.LeftPlayerIDs, requesterID) && !containsInt(match.RightPlayerIDs, requesterID) {
		return fmt.Errorf("%w: only match participants may delete it", ErrForbiddenOperation)
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		left, right, lockErr := s.lockRatings(ctx, exec, match.GameID, match.LeftPlayerIDs, match.RightPlayerIDs)
		if lockErr != nil {
			return lockErr
		}

		if match.Points > 0 {
			// Same magnitude, same rosters, opposite direction: the split is
			// deterministic, so each member gets back exactly what they paid
			// or earned.
			reverseErr := s.transfer.MoveMatchPoints(ctx, exec, TransferParams{
				PointsToMove: match.Points,
				LeftToRight:  match.LeftScore > match.RightScore,
				Left:         left,
				Right:        right,
			})
			if reverseErr != nil {
				return reverseErr
			}
		}
		return s.matchRepo.Delete(ctx, exec, matchID)
	})
	if err != nil {
		return wrapTxFailure(err)
	}

	if s.metrics != nil {
		s.metrics.MatchesDeleted.Inc()
	}
	s.notify(ctx, notifications.EventMatchDeleted, nil, match)
	return nil
}

func (s *matchService) ListByGame(ctx context.Context, gameID, limit int) ([]*models.Match, error) {
	if _, err := s.gameRepo.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}

	if limit <= 0 {
		limit = defaultMatchListLimit
	}
	if limit > maxMatchListLimit {
		limit = maxMatchListLimit
	}
	return s.matchRepo.ListByGame(ctx, gameID, limit)
}

// lockRatings seeds and locks every participant's rating row in ascending
// player id order, then hands the rows back grouped per side in roster order.
func (s *matchService) lockRatings(ctx context.Context, exec repositories.SQLExecutor, gameID int, leftIDs, rightIDs []int) ([]*models.PlayerRating, []*models.PlayerRating, error) {
	union := make([]int, 0, len(leftIDs)+len(rightIDs))
	union = append(union, leftIDs...)
	union = append(union, rightIDs...)
	sort.Ints(union)

	byPlayer := make(map[int]*models.PlayerRating, len(union))
	for _, playerID := range union {
		row, err := s.ratingRepo.GetOrCreateForUpdate(ctx, exec, gameID, playerID, s.ratingConfig.StartingPoints)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to lock rating of player %d: %w", playerID, err)
		}
		byPlayer[playerID] = row
	}

	left := make([]*models.PlayerRating, len(leftIDs))
	for i, id := range leftIDs {
		left[i] = byPlayer[id]
	}
	right := make([]*models.PlayerRating, len(rightIDs))
	for i, id := range rightIDs {
		right[i] = byPlayer[id]
	}
	return left, right, nil
}

func (s *matchService) notify(ctx context.Context, eventType string, game *models.Game, match *models.Match) {
	if s.notifier == nil {
		return
	}
	event := notifications.Event{
		Type:   eventType,
		GameID: match.GameID,
		Game:   game,
		Match:  match,
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("match notification failed", "event", eventType, "match_id", match.ID, "error", err)
	}
}

// wrapTxFailure marks untyped transaction errors, commit failures included,
// as retryable. Everything rolled back, so the caller may resubmit; typed
// sentinels keep their own meaning.
func wrapTxFailure(err error) error {
	for _, sentinel := range []error{
		ErrGameNotFound, ErrSeasonNotFound, ErrMatchNotFound,
		ErrInvalidRoster, ErrValidationFailed, ErrUnauthorized,
		ErrForbiddenOperation, ErrTransferFailed,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrTransferFailed, err)
}

func (s *matchService) mapMatchRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrMatchGameInvalid):
		return ErrGameNotFound
	case errors.Is(err, repositories.ErrMatchSeasonInvalid):
		return ErrSeasonNotFound
	case errors.Is(err, repositories.ErrMatchPlayerInvalid):
		return fmt.Errorf("%w: roster references a missing player", ErrInvalidRoster)
	default:
		return err
	}
}

func ratingPoints(side []*models.PlayerRating) []int {
	points := make([]int, len(side))
	for i, member := range side {
		points[i] = member.Points
	}
	return points
}

func containsInt(ids []int, id int) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
