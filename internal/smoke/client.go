// Package smoke is a black-box HTTP test suite for a running pharmacy API.
// Cases run in order and share captured tokens and ids through a Fixture;
// a failing case is recorded and the run carries on.
package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request the client makes.
const DefaultTimeout = 10 * time.Second

// Client talks JSON to the API rooted at BaseURL.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: &http.Client{Timeout: timeout}}
}

// Do sends body (when non-nil) as JSON to /api/<endpoint> and decodes a
// JSON response into out (when non-nil). It returns the status code.
func (c *Client) Do(ctx context.Context, method, endpoint, token string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(raw)
	}
	url := c.baseURL + "/api/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, endpoint, err)
		}
	}
	return resp.StatusCode, nil
}

// expect performs a request and fails unless the status matches want.
func (c *Client) expect(ctx context.Context, want int, method, endpoint, token string, body, out any) error {
	got, err := c.Do(ctx, method, endpoint, token, body, out)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%s /api/%s: expected %d, got %d", method, endpoint, want, got)
	}
	return nil
}
