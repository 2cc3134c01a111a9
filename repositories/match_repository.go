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
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchGameInvalid   = errors.New("match game conflict or invalid")
	ErrMatchSeasonInvalid = errors.New("match season conflict or invalid")
	ErrMatchPlayerInvalid = errors.New("match player conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	ListByGame(ctx context.Context, gameID, limit int) ([]*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)

	query := `
		INSERT INTO matches (game_id, season_id, left_score, right_score, points)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.GameID,
		match.SeasonID,
		match.LeftScore,
		match.RightScore,
		match.Points,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return r.handleMatchError(err)
	}

	sideQuery := `INSERT INTO match_players (match_id, player_id, side) VALUES ($1, $2, $3)`
	for _, playerID := range match.LeftPlayerIDs {
		if _, err := executor.ExecContext(ctx, sideQuery, match.ID, playerID, models.SideLeft); err != nil {
			return r.handleMatchError(err)
		}
	}
	for _, playerID := range match.RightPlayerIDs {
		if _, err := executor.ExecContext(ctx, sideQuery, match.ID, playerID, models.SideRight); err != nil {
			return r.handleMatchError(err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, game_id, season_id, left_score, right_score, points, created_at
		FROM matches
		WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.GameID,
		&match.SeasonID,
		&match.LeftScore,
		&match.RightScore,
		&match.Points,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}

	if err := r.loadSides(ctx, []*models.Match{match}); err != nil {
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	// match_players rows go with the match via ON DELETE CASCADE.
	query := `DELETE FROM matches WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) ListByGame(ctx context.Context, gameID, limit int) ([]*models.Match, error) {
	query := `
		SELECT id, game_id, season_id, left_score, right_score, points, created_at
		FROM matches
		WHERE game_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for game %d: %w", gameID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := rows.Scan(
			&match.ID,
			&match.GameID,
			&match.SeasonID,
			&match.LeftScore,
			&match.RightScore,
			&match.Points,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}

	if err := r.loadSides(ctx, matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) loadSides(ctx context.Context, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	byID := make(map[int]*models.Match, len(matches))
	ids := make([]int, 0, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}

	query := `
		SELECT mp.match_id, mp.side, u.id, u.name, u.email, u.role, u.image, u.created_at
		FROM match_players mp
		JOIN users u ON u.id = mp.player_id
		WHERE mp.match_id = ANY($1)
		ORDER BY mp.match_id ASC, u.id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query match sides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var matchID int
		var side models.MatchSide
		var user models.User
		if scanErr := rows.Scan(
			&matchID,
			&side,
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Role,
			&user.Image,
			&user.CreatedAt,
		); scanErr != nil {
			return fmt.Errorf("failed to scan match side row: %w", scanErr)
		}

		match := byID[matchID]
		if match == nil {
			continue
		}
		if side == models.SideLeft {
			match.LeftPlayerIDs = append(match.LeftPlayerIDs, user.ID)
			match.LeftPlayers = append(match.LeftPlayers, user)
		} else {
			match.RightPlayerIDs = append(match.RightPlayerIDs, user.ID)
			match.RightPlayers = append(match.RightPlayers, user)
		}
	}
	return rows.Err()
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_game_id_fkey":
			return ErrMatchGameInvalid
		case "matches_season_id_fkey":
			return ErrMatchSeasonInvalid
		case "match_players_player_id_fkey", "match_players_pkey":
			return ErrMatchPlayerInvalid
		}
	}
	return err
}
