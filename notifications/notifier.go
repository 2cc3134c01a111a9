// Package notifications delivers best-effort match events. Delivery failures
// are reported to the caller for logging but must never fail the match
// submission that triggered them.
package notifications

import (
	"context"
	"errors"

	"github.com/officegames/rating-system/models"
)

const (
	EventMatchRecorded = "MATCH_RECORDED"
	EventMatchDeleted  = "MATCH_DELETED"
)

type Event struct {
	Type   string        `json:"type"`
	GameID int           `json:"game_id"`
	Game   *models.Game  `json:"game,omitempty"`
	Match  *models.Match `json:"match,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// MultiNotifier fans an event out to every sink and reports all failures;
// one sink failing does not stop the others.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
