// Package flaresolverr is a small client for FlareSolverr-compatible
// rendering proxies, which load a page in a real browser and hand back the
// final HTML.
package flaresolverr

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

const (
	healthTimeout        = 5 * time.Second
	DefaultRenderTimeout = 60 * time.Second
	// Extra time on top of maxTimeout for the proxy to marshal its answer.
	responseSlack = 10 * time.Second

	cmdRequestGet   = "request.get"
	cmdSessionsList = "sessions.list"
	statusOK        = "ok"
)

// Client talks to a FlareSolverr instance
type Client struct {
	httpClient    *http.Client
	baseURL       string
	renderTimeout time.Duration
}

// NewClient creates a client for the proxy at baseURL. An empty baseURL
// yields a client whose calls fail with ErrNotConfigured.
func NewClient(baseURL string, renderTimeout time.Duration) *Client {
	if renderTimeout <= 0 {
		renderTimeout = DefaultRenderTimeout
	}
	return &Client{
		httpClient:    &http.Client{},
		baseURL:       strings.TrimRight(baseURL, "/"),
		renderTimeout: renderTimeout,
	}
}

// Configured reports whether a proxy URL was provided
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// RenderRequest asks the proxy to load TargetURL
type RenderRequest struct {
	TargetURL string
	// Timeout overrides the client's render timeout when positive
	Timeout time.Duration
}

// Solution is the rendered page returned by the proxy
type Solution struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status"`
	Body       string `json:"response"`
	UserAgent  string `json:"userAgent"`
}

type command struct {
	Cmd        string `json:"cmd"`
	URL        string `json:"url,omitempty"`
	MaxTimeout int64  `json:"maxTimeout,omitempty"`
}

type response struct {
	Status   string    `json:"status"`
	Message  string    `json:"message"`
	Solution *Solution `json:"solution"`
	Session  string    `json:"session"`
	Sessions []string  `json:"sessions"`
}

// Health checks that the proxy is up. Older proxies without a /health route
// are probed with a sessions.list command instead.
func (c *Client) Health(ctx context.Context) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		if _, err := c.do(ctx, command{Cmd: cmdSessionsList}); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, &StatusError{StatusCode: resp.StatusCode})
	}
}

// Get renders a page through the proxy
func (c *Client) Get(ctx context.Context, r RenderRequest) (*Solution, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	timeout := c.renderTimeout
	if r.Timeout > 0 {
		timeout = r.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout+responseSlack)
	defer cancel()

	resp, err := c.do(ctx, command{
		Cmd:        cmdRequestGet,
		URL:        r.TargetURL,
		MaxTimeout: timeout.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	if resp.Solution == nil {
		return nil, &ProxyError{Status: resp.Status, Message: "response carried no solution"}
	}
	return resp.Solution, nil
}

func (c *Client) do(ctx context.Context, cmd command) (*response, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to encode command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp response
	decodeErr := json.Unmarshal(body, &resp)

	// FlareSolverr reports command failures as HTTP 500 with a JSON body
	if decodeErr == nil && resp.Status != "" && resp.Status != statusOK {
		return nil, &ProxyError{Status: resp.Status, Message: resp.Message}
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: httpResp.StatusCode}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if resp.Status != statusOK {
		return nil, &ProxyError{Status: resp.Status, Message: resp.Message}
	}

	return &resp, nil
}
