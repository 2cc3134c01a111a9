package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officegames/rating-system/models"
)

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) Notify(_ context.Context, _ Event) error {
	s.calls++
	return s.err
}

func TestMultiNotifierFansOutPastFailures(t *testing.T) {
	failing := &stubNotifier{err: errors.New("webhook down")}
	healthy := &stubNotifier{}
	multi := MultiNotifier{failing, healthy}

	err := multi.Notify(context.Background(), Event{Type: EventMatchRecorded, GameID: 1})

	assert.Error(t, err)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, healthy.calls, "one failing sink must not block the others")
}

func TestSlackNotifierFormatsWinnerFirst(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL)
	event := Event{
		Type:   EventMatchRecorded,
		GameID: 1,
		Game:   &models.Game{ID: 1, Name: "Ping Pong"},
		Match: &models.Match{
			LeftScore:    3,
			RightScore:   10,
			Points:       25,
			LeftPlayers:  []models.User{{Name: "Alice"}},
			RightPlayers: []models.User{{Name: "Bob"}},
		},
	}

	require.NoError(t, notifier.Notify(context.Background(), event))
	require.NotNil(t, received)
	assert.Equal(t, "Bob defeated Alice 10-3 in Ping Pong (25 points moved)", received["text"])
}

func TestSlackNotifierIgnoresDeletes(t *testing.T) {
	notifier := NewSlackNotifier("http://127.0.0.1:0/unreachable")
	err := notifier.Notify(context.Background(), Event{Type: EventMatchDeleted, GameID: 1})
	assert.NoError(t, err, "delete events are not posted")
}

func TestSlackNotifierSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL)
	err := notifier.Notify(context.Background(), Event{
		Type:   EventMatchRecorded,
		GameID: 1,
		Match:  &models.Match{LeftPlayers: []models.User{{Name: "A"}}, RightPlayers: []models.User{{Name: "B"}}},
	})
	assert.Error(t, err)
}
