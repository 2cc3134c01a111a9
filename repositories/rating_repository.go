package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/officegames/rating-system/models"
)

var ErrRatingNotFound = errors.New("player rating not found")

type RatingRepository interface {
	// GetOrCreateForUpdate seeds the (game, player) row with startingPoints
	// if absent and returns it locked FOR UPDATE on the caller's transaction.
	// Callers must acquire rows in ascending player id order so concurrent
	// transfers over overlapping rosters cannot deadlock.
	GetOrCreateForUpdate(ctx context.Context, exec SQLExecutor, gameID, playerID, startingPoints int) (*models.PlayerRating, error)
	GetByGameAndPlayer(ctx context.Context, gameID, playerID int) (*models.PlayerRating, error)
	AddPoints(ctx context.Context, exec SQLExecutor, ratingID, delta int) error
	// ListLeaderboard returns up to limit rows ordered points DESC, id ASC,
	// starting strictly after the cursor row when cursor is non-nil.
	ListLeaderboard(ctx context.Context, gameID, limit int, cursor *int) ([]models.LeaderboardPosition, error)
}

type postgresRatingRepository struct {
	db *sql.DB
}

func NewPostgresRatingRepository(db *sql.DB) RatingRepository {
	return &postgresRatingRepository{db: db}
}

func (r *postgresRatingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRatingRepository) GetOrCreateForUpdate(ctx context.Context, exec SQLExecutor, gameID, playerID, startingPoints int) (*models.PlayerRating, error) {
	executor := r.getExecutor(exec)

	// Two statements instead of one upsert-returning: ON CONFLICT DO NOTHING
	// returns no row for existing pairs, and the SELECT has to lock the row
	// either way.
	insert := `
		INSERT INTO player_ratings (game_id, player_id, points)
		VALUES ($1, $2, $3)
		ON CONFLICT (game_id, player_id) DO NOTHING`
	if _, err := executor.ExecContext(ctx, insert, gameID, playerID, startingPoints); err != nil {
		return nil, fmt.Errorf("failed to seed rating for game %d player %d: %w", gameID, playerID, err)
	}

	query := `
		SELECT id, game_id, player_id, points, updated_at
		FROM player_ratings
		WHERE game_id = $1 AND player_id = $2
		FOR UPDATE`

	var pr models.PlayerRating
	err := executor.QueryRowContext(ctx, query, gameID, playerID).Scan(
		&pr.ID,
		&pr.GameID,
		&pr.PlayerID,
		&pr.Points,
		&pr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to lock rating for game %d player %d: %w", gameID, playerID, err)
	}
	return &pr, nil
}

func (r *postgresRatingRepository) GetByGameAndPlayer(ctx context.Context, gameID, playerID int) (*models.PlayerRating, error) {
	query := `
		SELECT id, game_id, player_id, points, updated_at
		FROM player_ratings
		WHERE game_id = $1 AND player_id = $2`

	var pr models.PlayerRating
	err := r.db.QueryRowContext(ctx, query, gameID, playerID).Scan(
		&pr.ID,
		&pr.GameID,
		&pr.PlayerID,
		&pr.Points,
		&pr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to scan rating for game %d player %d: %w", gameID, playerID, err)
	}
	return &pr, nil
}

func (r *postgresRatingRepository) AddPoints(ctx context.Context, exec SQLExecutor, ratingID, delta int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE player_ratings SET points = points + $1, updated_at = NOW() WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, delta, ratingID)
	if err != nil {
		return fmt.Errorf("failed to apply %+d points to rating %d: %w", delta, ratingID, err)
	}
	return checkAffectedRows(result, ErrRatingNotFound)
}

func (r *postgresRatingRepository) ListLeaderboard(ctx context.Context, gameID, limit int, cursor *int) ([]models.LeaderboardPosition, error) {
	// Win/loss aggregates ride along via a lateral over the player's matches
	// in this game. The row-value predicate continues the (points DESC,
	// id ASC) ordering strictly after the cursor row, so a page boundary
	// never repeats or skips a player even on rating ties.
	query := `
		SELECT pr.id, pr.player_id, u.name, u.image, pr.points,
		       COALESCE(rec.wins, 0), COALESCE(rec.losses, 0)
		FROM player_ratings pr
		JOIN users u ON u.id = pr.player_id
		LEFT JOIN LATERAL (
			SELECT
				COUNT(*) FILTER (WHERE (mp.side = 'left'  AND m.left_score > m.right_score)
				              OR (mp.side = 'right' AND m.right_score > m.left_score)) AS wins,
				COUNT(*) FILTER (WHERE (mp.side = 'left'  AND m.left_score < m.right_score)
				              OR (mp.side = 'right' AND m.right_score < m.left_score)) AS losses
			FROM match_players mp
			JOIN matches m ON m.id = mp.match_id
			WHERE mp.player_id = pr.player_id AND m.game_id = pr.game_id
		) rec ON TRUE
		WHERE pr.game_id = $1`

	args := []interface{}{gameID}
	if cursor != nil {
		query += `
		  AND (pr.points < (SELECT points FROM player_ratings WHERE id = $2)
		    OR (pr.points = (SELECT points FROM player_ratings WHERE id = $2) AND pr.id > $2))`
		args = append(args, *cursor)
		query += `
		ORDER BY pr.points DESC, pr.id ASC
		LIMIT $3`
	} else {
		query += `
		ORDER BY pr.points DESC, pr.id ASC
		LIMIT $2`
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard for game %d: %w", gameID, err)
	}
	defer rows.Close()

	positions := make([]models.LeaderboardPosition, 0, limit)
	for rows.Next() {
		var pos models.LeaderboardPosition
		if scanErr := rows.Scan(
			&pos.RatingID,
			&pos.PlayerID,
			&pos.Name,
			&pos.Image,
			&pos.Points,
			&pos.Wins,
			&pos.Losses,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", scanErr)
		}
		positions = append(positions, pos)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during leaderboard rows iteration: %w", err)
	}
	return positions, nil
}
