package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds each call when the caller passes zero.
const DefaultTimeout = 5 * time.Second

// Client talks to the leaderboard service over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client for the service at baseURL
// (e.g. "http://localhost:3000"). Every call is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Scores fetches the full ledger ordered by score descending.
func (c *Client) Scores(ctx context.Context) ([]ScoreRecord, error) {
	var records []ScoreRecord
	if err := c.do(ctx, http.MethodGet, "/api/scores", nil, http.StatusOK, &records); err != nil {
		return nil, fmt.Errorf("leaderboard: fetch scores: %w", err)
	}
	if records == nil {
		records = []ScoreRecord{}
	}
	return records, nil
}

// Stats fetches aggregate ledger statistics.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/api/scores/stats", nil, http.StatusOK, &stats); err != nil {
		return stats, fmt.Errorf("leaderboard: fetch stats: %w", err)
	}
	return stats, nil
}

// Submit sends a final score. The service keeps it only if it beats the
// player's stored best.
func (c *Client) Submit(ctx context.Context, r ScoreRecord) error {
	if r.Date.IsZero() {
		r.Date = time.Now()
	}
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("leaderboard: encode score: %w", err)
	}
	if err := c.do(ctx, http.MethodPost, "/api/scores", body, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("leaderboard: submit score: %w", err)
	}
	return nil
}

// CheckName reports whether name already has a ledger record.
func (c *Client) CheckName(ctx context.Context, name string) (bool, error) {
	var resp struct {
		Exists bool `json:"exists"`
	}
	path := "/api/scores/check-name?name=" + url.QueryEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &resp); err != nil {
		return false, fmt.Errorf("leaderboard: check name: %w", err)
	}
	return resp.Exists, nil
}

// apiError is the service's error body.
type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, want int, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var apiErr apiError
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
		msg := apiErr.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		// Gateways report an unreachable service with 5xx codes of their own.
		if resp.StatusCode == http.StatusBadGateway ||
			resp.StatusCode == http.StatusServiceUnavailable ||
			resp.StatusCode == http.StatusGatewayTimeout {
			return fmt.Errorf("%w: status %d: %s", ErrTransient, resp.StatusCode, msg)
		}
		return fmt.Errorf("%w: status %d: %s", ErrServer, resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return errors.Join(ErrTransient, err)
		}
		return fmt.Errorf("%w: decode response: %v", ErrServer, err)
	}
	return nil
}
