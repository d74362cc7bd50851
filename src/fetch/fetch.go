// Package fetch provides the HTTP helper shared by document loading
// and mirror resolution.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps a standard http.Client with convenience helpers.
type Client struct {
	client *http.Client
}

// NewClient creates a client with the given timeout.
// A zero or negative timeout falls back to 10 seconds.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		client: &http.Client{Timeout: timeout},
	}
}

// Bytes GETs a URL and returns the raw response body.
// An empty body is an error: every caller treats "nothing came back"
// as a hard failure, never as a valid document.
func (c *Client) Bytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: GET %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: read %s: %w", url, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("fetch: GET %s: empty response", url)
	}
	return data, nil
}
