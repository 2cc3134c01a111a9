package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/officegames/rating-system/repositories"
)

// RosterEntry is one participant as submitted by a client. Source "guest"
// marks an indirect reference: the id points at a guest placeholder whose
// claimed user is the canonical player.
type RosterEntry struct {
	ID     int    `json:"id"`
	Source string `json:"source,omitempty"`
}

const rosterSourceGuest = "guest"

type RosterService interface {
	// Resolve maps roster entries to canonical player ids, in input order.
	// Unknown players, unclaimed guests and duplicate ids all yield
	// ErrInvalidRoster.
	Resolve(ctx context.Context, entries []RosterEntry) ([]int, error)
}

type rosterService struct {
	userRepo  repositories.UserRepository
	guestRepo repositories.GuestRepository
}

func NewRosterService(userRepo repositories.UserRepository, guestRepo repositories.GuestRepository) RosterService {
	return &rosterService{
		userRepo:  userRepo,
		guestRepo: guestRepo,
	}
}

func (s *rosterService) Resolve(ctx context.Context, entries []RosterEntry) ([]int, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: roster is empty", ErrInvalidRoster)
	}

	ids := make([]int, 0, len(entries))
	seen := make(map[int]struct{}, len(entries))

	for _, entry := range entries {
		playerID := entry.ID

		if entry.Source == rosterSourceGuest {
			guest, err := s.guestRepo.GetByID(ctx, entry.ID)
			if err != nil {
				if errors.Is(err, repositories.ErrGuestNotFound) {
					return nil, fmt.Errorf("%w: unknown guest %d", ErrInvalidRoster, entry.ID)
				}
				return nil, fmt.Errorf("failed to resolve guest %d: %w", entry.ID, err)
			}
			if guest.UserID == nil {
				return nil, fmt.Errorf("%w: guest %d has not been claimed", ErrInvalidRoster, entry.ID)
			}
			playerID = *guest.UserID
		}

		if _, dup := seen[playerID]; dup {
			return nil, fmt.Errorf("%w: duplicate player %d", ErrInvalidRoster, playerID)
		}
		seen[playerID] = struct{}{}
		ids = append(ids, playerID)
	}

	// The resolved count must survive the round trip through the users
	// table; a shorter result means an unknown id slipped through.
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster players: %w", err)
	}
	if len(users) != len(ids) {
		return nil, fmt.Errorf("%w: roster contains unknown player ids", ErrInvalidRoster)
	}

	return ids, nil
}
