package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/lifeos/backend/internal/domain/crm"
	"github.com/lifeos/backend/internal/infrastructure/config"
)

// Client talks to the calendar provider's REST API
type Client struct {
	baseURL    string
	apiKey     string
	calendarID string
	httpClient *http.Client
}

// NewClient creates a calendar client from configuration
func NewClient(cfg config.CalendarConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		calendarID: cfg.CalendarID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type createEventRequest struct {
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Attendee string    `json:"attendee,omitempty"`
}

type createEventResponse struct {
	ID string `json:"id"`
}

// CreateEvent creates an event and returns the provider's event id
func (c *Client) CreateEvent(ctx context.Context, title string, startsAt, endsAt time.Time, attendee string) (string, error) {
	body, err := json.Marshal(createEventRequest{
		Title:    title,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		Attendee: attendee,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode event: %w", err)
	}

	url := fmt.Sprintf("%s/v1/calendars/%s/events", c.baseURL, c.calendarID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("calendar provider returned %d: %s", resp.StatusCode, payload)
	}

	var out createEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode event response: %w", err)
	}
	return out.ID, nil
}

type freeBusyResponse struct {
	Busy []crm.BusySlot `json:"busy"`
}

// FreeBusy returns the provider calendar's occupied slots within [from, to)
func (c *Client) FreeBusy(ctx context.Context, from, to time.Time) ([]crm.BusySlot, error) {
	url := fmt.Sprintf("%s/v1/calendars/%s/freebusy?from=%s&to=%s",
		c.baseURL, c.calendarID,
		neturl.QueryEscape(from.Format(time.RFC3339)),
		neturl.QueryEscape(to.Format(time.RFC3339)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("calendar provider returned %d: %s", resp.StatusCode, payload)
	}

	var out freeBusyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode free/busy response: %w", err)
	}
	return out.Busy, nil
}

// DeleteEvent removes an event from the provider's calendar
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	url := fmt.Sprintf("%s/v1/calendars/%s/events/%s", c.baseURL, c.calendarID, eventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calendar provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Already gone.
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("calendar provider returned %d: %s", resp.StatusCode, payload)
	}
	return nil
}
