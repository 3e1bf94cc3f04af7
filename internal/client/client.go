// Package client implements schedule.Repository against a remote congrid
// server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/javiermolinar/congrid/internal/schedule"
)

const defaultTimeout = 30 * time.Second

// ErrNoBaseURL is returned by New when no server URL is configured.
var ErrNoBaseURL = errors.New("remote url is required")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Client talks to the schedule HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on writes.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LoadSnapshot fetches the schedule.
func (c *Client) LoadSnapshot(ctx context.Context) (*schedule.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/schedule", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var snap schedule.Snapshot
	if err := c.do(req, &snap); err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	return &snap, nil
}

// SaveAssignment posts one item's assignment.
func (c *Client) SaveAssignment(ctx context.Context, a schedule.Assignment) error {
	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding assignment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/schedule/items", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("saving item %d: %w", a.ID, err)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// errorMessage extracts a message from either a huma problem document or a
// plain {"error": ...} body.
func errorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(data))
}
