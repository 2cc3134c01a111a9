package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/officegames/rating-system/models"
	"github.com/officegames/rating-system/repositories"
)

type SeasonService interface {
	GetByID(ctx context.Context, id int) (*models.Season, error)
	Create(ctx context.Context, season *models.Season) error
	// Delete removes the season but keeps its matches; they are detached so
	// rating state is never rewritten by a season cleanup.
	Delete(ctx context.Context, id int) error
}

type seasonService struct {
	seasonRepo repositories.SeasonRepository
	gameRepo   repositories.GameRepository
	tx         TxRunner
}

func NewSeasonService(seasonRepo repositories.SeasonRepository, gameRepo repositories.GameRepository, tx TxRunner) SeasonService {
	return &seasonService{
		seasonRepo: seasonRepo,
		gameRepo:   gameRepo,
		tx:         tx,
	}
}

func (s *seasonService) GetByID(ctx context.Context, id int) (*models.Season, error) {
	season, err := s.seasonRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to load season %d: %w", id, err)
	}
	return season, nil
}

func (s *seasonService) Create(ctx context.Context, season *models.Season) error {
	if season.Name == "" || season.Slug == "" {
		return fmt.Errorf("%w: season name and slug are required", ErrValidationFailed)
	}
	if _, err := s.gameRepo.GetByID(ctx, season.GameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to load game %d: %w", season.GameID, err)
	}

	if err := s.seasonRepo.Create(ctx, season); err != nil {
		if errors.Is(err, repositories.ErrSeasonGameInvalid) {
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to create season: %w", err)
	}
	return nil
}

func (s *seasonService) Delete(ctx context.Context, id int) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.seasonRepo.DetachMatches(ctx, exec, id); err != nil {
			return fmt.Errorf("failed to detach matches from season %d: %w", id, err)
		}
		if err := s.seasonRepo.Delete(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrSeasonNotFound) {
				return ErrSeasonNotFound
			}
			return fmt.Errorf("failed to delete season %d: %w", id, err)
		}
		return nil
	})
}
