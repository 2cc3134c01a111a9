package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/officegames/rating-system/models"
	"github.com/officegames/rating-system/repositories"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 20
)

// LeaderboardPage is one page of standings. NextCursor is set only when the
// page is full; passing it back returns the rows strictly after this page
// under the (points DESC, id ASC) ordering.
type LeaderboardPage struct {
	Positions  []models.LeaderboardPosition `json:"positions"`
	NextCursor *int                         `json:"next_cursor,omitempty"`
}

type LeaderboardService interface {
	GetPage(ctx context.Context, gameID, pageSize int, cursor *int) (*LeaderboardPage, error)
}

type leaderboardService struct {
	ratingRepo repositories.RatingRepository
	gameRepo   repositories.GameRepository
}

func NewLeaderboardService(ratingRepo repositories.RatingRepository, gameRepo repositories.GameRepository) LeaderboardService {
	return &leaderboardService{
		ratingRepo: ratingRepo,
		gameRepo:   gameRepo,
	}
}

func (s *leaderboardService) GetPage(ctx context.Context, gameID, pageSize int, cursor *int) (*LeaderboardPage, error) {
	if _, err := s.gameRepo.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	positions, err := s.ratingRepo.ListLeaderboard(ctx, gameID, pageSize, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard for game %d: %w", gameID, err)
	}

	page := &LeaderboardPage{Positions: positions}
	// A short page is the last page. A full one may have more rows behind it,
	// so hand out the last row's rating id as the continuation point.
	if len(positions) == pageSize {
		last := positions[len(positions)-1].RatingID
		page.NextCursor = &last
	}
	return page, nil
}
