package cronapi

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

// Schedule is one registered cron job at the external scheduling service.
// The service calls our /cron endpoints on schedule with the shared token.
type Schedule struct {
	Name       string            `json:"name"`
	Expression string            `json:"expression"`
	URL        string            `json:"url"`
	Method     string            `json:"method"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Client talks to the external cron service's REST API. Used by
// cmd/cronsetup to register the schedules this backend expects.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a cron API client from configuration
func NewClient(cfg config.CronConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Upsert registers or replaces a schedule by name
func (c *Client) Upsert(ctx context.Context, s Schedule) error {
	if s.Method == "" {
		s.Method = http.MethodPost
	}
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode schedule: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		fmt.Sprintf("%s/v1/schedules/%s", c.baseURL, s.Name), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cron service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("cron service returned %d: %s", resp.StatusCode, payload)
	}
	return nil
}

// List returns all registered schedules
func (c *Client) List(ctx context.Context) ([]Schedule, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/schedules", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cron service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("cron service returned %d: %s", resp.StatusCode, payload)
	}

	var schedules []Schedule
	if err := json.NewDecoder(resp.Body).Decode(&schedules); err != nil {
		return nil, fmt.Errorf("failed to decode schedules: %w", err)
	}
	return schedules, nil
}
