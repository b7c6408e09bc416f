// Package lessongen talks to the lesson generation webhook.
package lessongen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
)

// Client requests lesson content for a track and day.
type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
	stubMode   bool
}

// NewClient creates a new webhook client. In stub mode no request is made.
func NewClient(baseURL, secret string, timeout time.Duration, stubMode bool) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
		stubMode:   stubMode,
	}
}

// GenerateLesson returns a new, not yet completed lesson for track on day.
func (c *Client) GenerateLesson(ctx context.Context, track entities.Track, day entities.Day) (*entities.DailyLesson, error) {
	if c.stubMode {
		return stubLesson(track, day), nil
	}

	body, err := json.Marshal(generateRequest{
		Track: string(track.ID),
		Topic: track.Topic,
		Date:  day.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Lessongen-Secret", c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(msg))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if out.Title == "" || out.Content == "" {
		return nil, fmt.Errorf("webhook returned an empty lesson")
	}

	return &entities.DailyLesson{
		ID:      day,
		Track:   track.ID,
		Topic:   track.Topic,
		Title:   out.Title,
		Content: out.Content,
		Example: out.Example,
		ProTip:  out.PracticalTip,
	}, nil
}

func stubLesson(track entities.Track, day entities.Day) *entities.DailyLesson {
	label := track.Label()
	return &entities.DailyLesson{
		ID:      day,
		Track:   track.ID,
		Topic:   track.Topic,
		Title:   fmt.Sprintf("%s: one idea for %s", label, day),
		Content: fmt.Sprintf("Today's short lesson on %s. Read it, think about it for a minute, then mark it done.", label),
		Example: "Spend five focused minutes applying the idea to something you are working on.",
		ProTip:  "Write the idea down in one sentence before you close the chat.",
	}
}
