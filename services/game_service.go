package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/officegames/rating-system/models"
	"github.com/officegames/rating-system/repositories"
)

type GameService interface {
	GetByID(ctx context.Context, id int) (*models.Game, error)
	ListByOffice(ctx context.Context, officeID int) ([]models.Game, error)
	ListOffices(ctx context.Context) ([]models.Office, error)
}

type gameService struct {
	gameRepo repositories.GameRepository
}

func NewGameService(gameRepo repositories.GameRepository) GameService {
	return &gameService{gameRepo: gameRepo}
}

func (s *gameService) GetByID(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", id, err)
	}
	return game, nil
}

func (s *gameService) ListByOffice(ctx context.Context, officeID int) ([]models.Game, error) {
	games, err := s.gameRepo.ListByOffice(ctx, officeID)
	if err != nil {
		if errors.Is(err, repositories.ErrOfficeNotFound) {
			return nil, ErrOfficeNotFound
		}
		return nil, fmt.Errorf("failed to list games for office %d: %w", officeID, err)
	}
	return games, nil
}

func (s *gameService) ListOffices(ctx context.Context) ([]models.Office, error) {
	offices, err := s.gameRepo.ListOffices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}
	return offices, nil
}
