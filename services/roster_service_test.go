package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officegames/rating-system/models"
)

func TestRosterResolve(t *testing.T) {
	users := newFakeUserRepo(1, 2, 3)
	claimedBy := 2
	guests := newFakeGuestRepo(
		&models.Guest{ID: 10, Name: "Visiting Vera", UserID: &claimedBy},
		&models.Guest{ID: 11, Name: "Unclaimed Uli"},
	)
	svc := NewRosterService(users, guests)
	ctx := context.Background()

	t.Run("plain users keep input order", func(t *testing.T) {
		ids, err := svc.Resolve(ctx, []RosterEntry{{ID: 3}, {ID: 1}})
		require.NoError(t, err)
		assert.Equal(t, []int{3, 1}, ids)
	})

	t.Run("claimed guest resolves to its user", func(t *testing.T) {
		ids, err := svc.Resolve(ctx, []RosterEntry{{ID: 1}, {ID: 10, Source: "guest"}})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, ids)
	})

	t.Run("unclaimed guest is rejected", func(t *testing.T) {
		_, err := svc.Resolve(ctx, []RosterEntry{{ID: 11, Source: "guest"}})
		assert.ErrorIs(t, err, ErrInvalidRoster)
	})

	t.Run("unknown guest is rejected", func(t *testing.T) {
		_, err := svc.Resolve(ctx, []RosterEntry{{ID: 404, Source: "guest"}})
		assert.ErrorIs(t, err, ErrInvalidRoster)
	})

	t.Run("duplicate after guest resolution is rejected", func(t *testing.T) {
		_, err := svc.Resolve(ctx, []RosterEntry{{ID: 2}, {ID: 10, Source: "guest"}})
		assert.ErrorIs(t, err, ErrInvalidRoster)
	})

	t.Run("unknown user id is rejected", func(t *testing.T) {
		_, err := svc.Resolve(ctx, []RosterEntry{{ID: 1}, {ID: 99}})
		assert.ErrorIs(t, err, ErrInvalidRoster)
	})

	t.Run("empty roster is rejected", func(t *testing.T) {
		_, err := svc.Resolve(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidRoster)
	})
}
