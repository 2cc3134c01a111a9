package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/officegames/rating-system/models"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrOfficeNotFound = errors.New("office not found")
)

type GameRepository interface {
	GetByID(ctx context.Context, id int) (*models.Game, error)
	ListByOffice(ctx context.Context, officeID int) ([]models.Game, error)
	ListOffices(ctx context.Context) ([]models.Office, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `
		SELECT
			g.id, g.office_id, g.name, g.slug, g.icon, g.max_players_per_team, g.created_at,
			o.id, o.name, o.slug, o.created_at
		FROM games g
		JOIN offices o ON g.office_id = o.id
		WHERE g.id = $1`

	var game models.Game
	var office models.Office
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&game.ID,
		&game.OfficeID,
		&game.Name,
		&game.Slug,
		&game.Icon,
		&game.MaxPlayersPerTeam,
		&game.CreatedAt,
		&office.ID,
		&office.Name,
		&office.Slug,
		&office.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to scan game by id %d: %w", id, err)
	}
	game.Office = &office
	return &game, nil
}

func (r *postgresGameRepository) ListByOffice(ctx context.Context, officeID int) ([]models.Game, error) {
	query := `
		SELECT id, office_id, name, slug, icon, max_players_per_team, created_at
		FROM games
		WHERE office_id = $1
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, officeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query games for office %d: %w", officeID, err)
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		var game models.Game
		if scanErr := rows.Scan(
			&game.ID,
			&game.OfficeID,
			&game.Name,
			&game.Slug,
			&game.Icon,
			&game.MaxPlayersPerTeam,
			&game.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", scanErr)
		}
		games = append(games, game)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during game rows iteration: %w", err)
	}
	return games, nil
}

func (r *postgresGameRepository) ListOffices(ctx context.Context) ([]models.Office, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM offices
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query offices: %w", err)
	}
	defer rows.Close()

	offices := make([]models.Office, 0)
	for rows.Next() {
		var office models.Office
		if scanErr := rows.Scan(&office.ID, &office.Name, &office.Slug, &office.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan office row: %w", scanErr)
		}
		offices = append(offices, office)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during office rows iteration: %w", err)
	}
	return offices, nil
}
