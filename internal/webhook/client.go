// Package webhook forwards dashboard commands to the external automation
// service. One attempt per call with a fixed timeout; the automation layer
// owns reliability, so there are no retries and no backoff here.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CommandSource tags free-text commands with their origin.
const CommandSource = "dashboard"

// Client calls named endpoints under a single automation base URL.
type Client struct {
	baseURL   string
	commander string
	status    string
	http      *http.Client
}

// NewClient builds a dispatcher for baseURL. commander receives free-text
// commands, status answers connection tests.
func NewClient(baseURL string, timeout time.Duration, commander, status string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		commander: commander,
		status:    status,
		http:      &http.Client{Timeout: timeout},
	}
}

// Call invokes a named endpoint: GET when payload is nil, POST with a JSON
// body otherwise. Transport errors, timeouts, non-2xx statuses, and
// unparseable response bodies all come back as a plain error; the caller
// decides how to present the failure. Success returns the decoded body.
func (c *Client) Call(ctx context.Context, endpoint string, payload any) (map[string]any, error) {
	url := c.baseURL + "/webhook/" + endpoint

	var req *http.Request
	var err error
	if payload == nil {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	} else {
		var body []byte
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload for %s: %w", endpoint, err)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", endpoint, err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("endpoint %s returned status %d", endpoint, resp.StatusCode)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// A garbled success body is a failure; partial data never leaks out.
		return nil, fmt.Errorf("endpoint %s returned unparseable body: %w", endpoint, err)
	}
	return result, nil
}

// SendCommand forwards free text to the commander endpoint with the
// dashboard source tag.
func (c *Client) SendCommand(ctx context.Context, command string) (map[string]any, error) {
	return c.Call(ctx, c.commander, map[string]any{
		"command": command,
		"source":  CommandSource,
	})
}

// Ping exercises the status endpoint as a connection test.
func (c *Client) Ping(ctx context.Context) (map[string]any, error) {
	return c.Call(ctx, c.status, nil)
}
