package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SlackNotifier posts match results to an incoming-webhook URL.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *SlackNotifier) Notify(ctx context.Context, event Event) error {
	if event.Type != EventMatchRecorded || event.Match == nil {
		return nil
	}

	payload := map[string]string{"text": s.formatMatch(event)}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post slack notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *SlackNotifier) formatMatch(event Event) string {
	match := event.Match

	left := make([]string, 0, len(match.LeftPlayers))
	for _, p := range match.LeftPlayers {
		left = append(left, p.Name)
	}
	right := make([]string, 0, len(match.RightPlayers))
	for _, p := range match.RightPlayers {
		right = append(right, p.Name)
	}

	gameName := "a match"
	if event.Game != nil {
		gameName = event.Game.Name
	}

	verb := "defeated"
	leftNames, rightNames := strings.Join(left, ", "), strings.Join(right, ", ")
	if match.LeftScore == match.RightScore {
		verb = "tied with"
	} else if match.LeftScore < match.RightScore {
		leftNames, rightNames = rightNames, leftNames
	}

	return fmt.Sprintf("%s %s %s %d-%d in %s (%d points moved)",
		leftNames, verb, rightNames,
		maxInt(match.LeftScore, match.RightScore), minInt(match.LeftScore, match.RightScore),
		gameName, match.Points)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
