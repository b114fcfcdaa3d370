package taskboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lifeos/backend/internal/infrastructure/config"
)

// Client talks to the task-board provider's REST API
type Client struct {
	baseURL    string
	apiKey     string
	boardID    string
	httpClient *http.Client
}

// NewClient creates a task-board client from configuration
func NewClient(cfg config.TaskboardConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		boardID:    cfg.BoardID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type createCardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	List        string `json:"list,omitempty"`
}

type createCardResponse struct {
	ID string `json:"id"`
}

// CreateCard mirrors a work item onto the external board and returns the
// card id
func (c *Client) CreateCard(ctx context.Context, title, description, list string) (string, error) {
	body, err := json.Marshal(createCardRequest{
		Title:       title,
		Description: description,
		List:        list,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode card: %w", err)
	}

	url := fmt.Sprintf("%s/v1/boards/%s/cards", c.baseURL, c.boardID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("task-board provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("task-board provider returned %d: %s", resp.StatusCode, payload)
	}

	var out createCardResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode card response: %w", err)
	}
	return out.ID, nil
}

type moveCardRequest struct {
	List string `json:"list"`
}

// MoveCard moves an existing card to another list on the board
func (c *Client) MoveCard(ctx context.Context, cardID, list string) error {
	body, err := json.Marshal(moveCardRequest{List: list})
	if err != nil {
		return fmt.Errorf("failed to encode card move: %w", err)
	}

	url := fmt.Sprintf("%s/v1/boards/%s/cards/%s", c.baseURL, c.boardID, cardID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("task-board provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("task-board provider returned %d: %s", resp.StatusCode, payload)
	}
	return nil
}
