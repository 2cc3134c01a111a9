package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/officegames/rating-system/models"
)

var ErrGuestNotFound = errors.New("guest not found")

type GuestRepository interface {
	GetByID(ctx context.Context, id int) (*models.Guest, error)
	Create(ctx context.Context, guest *models.Guest) error
	Claim(ctx context.Context, id, userID int) error
}

type postgresGuestRepository struct {
	db *sql.DB
}

func NewPostgresGuestRepository(db *sql.DB) GuestRepository {
	return &postgresGuestRepository{db: db}
}

func (r *postgresGuestRepository) GetByID(ctx context.Context, id int) (*models.Guest, error) {
	query := `
		SELECT id, name, user_id, created_at
		FROM guests
		WHERE id = $1`

	var guest models.Guest
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&guest.ID,
		&guest.Name,
		&guest.UserID,
		&guest.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, fmt.Errorf("failed to scan guest by id %d: %w", id, err)
	}
	return &guest, nil
}

func (r *postgresGuestRepository) Create(ctx context.Context, guest *models.Guest) error {
	query := `
		INSERT INTO guests (name, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query, guest.Name, guest.UserID).
		Scan(&guest.ID, &guest.CreatedAt)
}

func (r *postgresGuestRepository) Claim(ctx context.Context, id, userID int) error {
	query := `UPDATE guests SET user_id = $1 WHERE id = $2 AND user_id IS NULL`
	result, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGuestNotFound)
}
