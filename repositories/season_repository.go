package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/officegames/rating-system/models"
)

var (
	ErrSeasonNotFound    = errors.New("season not found")
	ErrSeasonGameInvalid = errors.New("season game conflict or invalid")
)

type SeasonRepository interface {
	GetByID(ctx context.Context, id int) (*models.Season, error)
	Create(ctx context.Context, season *models.Season) error
	// DetachMatches clears season_id on the season's matches so deleting the
	// season never touches rating state.
	DetachMatches(ctx context.Context, exec SQLExecutor, seasonID int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

func (r *postgresSeasonRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, id int) (*models.Season, error) {
	query := `
		SELECT id, game_id, name, slug, colour, start_date, end_date
		FROM seasons
		WHERE id = $1`

	var season models.Season
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&season.ID,
		&season.GameID,
		&season.Name,
		&season.Slug,
		&season.Colour,
		&season.StartDate,
		&season.EndDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to scan season by id %d: %w", id, err)
	}
	return &season, nil
}

func (r *postgresSeasonRepository) Create(ctx context.Context, season *models.Season) error {
	query := `
		INSERT INTO seasons (game_id, name, slug, colour, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		season.GameID,
		season.Name,
		season.Slug,
		season.Colour,
		season.StartDate,
		season.EndDate,
	).Scan(&season.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "seasons_game_id_fkey" {
			return ErrSeasonGameInvalid
		}
		return err
	}
	return nil
}

func (r *postgresSeasonRepository) DetachMatches(ctx context.Context, exec SQLExecutor, seasonID int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET season_id = NULL WHERE season_id = $1`
	_, err := executor.ExecContext(ctx, query, seasonID)
	return err
}

func (r *postgresSeasonRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM seasons WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}
