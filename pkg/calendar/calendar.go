// Package calendar talks to the realtor's calendar service over REST.
// An unconfigured client lists no events and refuses to create any, so the
// application runs without calendar credentials.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotConfigured reports a write attempted without calendar credentials.
var ErrNotConfigured = errors.New("calendar not configured")

// slotDuration is the fixed appointment length.
const slotDuration = time.Hour

type Config struct {
	URL        string        `split_words:"true"`
	Token      string        `split_words:"true"`
	CalendarID string        `envconfig:"CALENDAR_ID" split_words:"true"`
	Timeout    time.Duration `split_words:"true" default:"10s"`
}

type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description,omitempty"`
}

type Client struct {
	baseURL    string
	token      string
	calendarID string
	httpClient *http.Client
}

// NewClient builds a client from config. Missing URL, token, or calendar id
// yields an unconfigured client rather than an error.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL != "" {
		if _, err := url.ParseRequestURI(baseURL); err != nil {
			return nil, err
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(cfg.Token),
		calendarID: strings.TrimSpace(cfg.CalendarID),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

func (c *Client) Configured() bool {
	return c.baseURL != "" && c.token != "" && c.calendarID != ""
}

// ListEvents returns upcoming events, or an empty list when unconfigured.
func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	if !c.Configured() {
		return []Event{}, nil
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(c.calendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list events: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Items []Event `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("list events: decode response: %w", err)
	}
	return payload.Items, nil
}

// CreateEvent books an appointment. Unconfigured clients return
// ErrNotConfigured so the caller can surface the failure.
func (c *Client) CreateEvent(ctx context.Context, summary string, start, end time.Time, description string) (Event, error) {
	if !c.Configured() {
		return Event{}, ErrNotConfigured
	}

	body, err := json.Marshal(Event{
		Summary:     summary,
		Start:       start.UTC(),
		End:         end.UTC(),
		Description: description,
	})
	if err != nil {
		return Event{}, err
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(c.calendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Event{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Event{}, fmt.Errorf("create event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Event{}, fmt.Errorf("create event: unexpected status %d", resp.StatusCode)
	}

	var created Event
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return Event{}, fmt.Errorf("create event: decode response: %w", err)
	}
	return created, nil
}

// ParseSlot converts a booking date ("2006-01-02") and time ("3:04 PM") into
// a one-hour appointment window.
func ParseSlot(date, clock string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02 3:04 PM", strings.TrimSpace(date)+" "+strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse appointment slot: %w", err)
	}
	return start, start.Add(slotDuration), nil
}
