// Package client talks to a remote histsync over its JSON API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leapstack-labs/histsync/pkg/core"
)

// API paths served by histsync.
const (
	ActionPath     = "/api/leer-historial"
	StatisticsPath = "/api/estadisticas"
)

// maxBody caps the bytes read from any response.
const maxBody = 8 << 20

// Client is an HTTP backend for the page coordinator.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client for the histsync at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No overall timeout: a harvest runs until the backend answers.
		http:   &http.Client{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunAction triggers a harvest. A response with success=false is returned
// together with an error wrapping core.ErrActionFailed.
func (c *Client) RunAction(ctx context.Context) (*core.ActionResponse, error) {
	var resp core.ActionResponse
	if err := c.do(ctx, http.MethodPost, ActionPath, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return &resp, fmt.Errorf("%w: %s", core.ErrActionFailed, resp.Message)
	}
	return &resp, nil
}

// Statistics fetches the aggregate counts.
func (c *Client) Statistics(ctx context.Context) (*core.StatsResponse, error) {
	var resp core.StatsResponse
	if err := c.do(ctx, http.MethodGet, StatisticsPath, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return &resp, fmt.Errorf("%w: %s", core.ErrActionFailed, resp.Message)
	}
	if resp.Stats == nil {
		return nil, fmt.Errorf("%w: missing estadisticas", core.ErrMalformedResponse)
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrTransport, err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("backend request", "method", method, "path", path)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrTransport, err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", core.ErrTransport, err)
	}

	// histsync answers failures with a {success:false, mensaje} body; keep the
	// message when the body decodes.
	if res.StatusCode < 200 || res.StatusCode > 299 {
		remote := &core.RemoteError{Status: res.Status}
		var failure struct {
			Message string `json:"mensaje"`
		}
		if json.Unmarshal(body, &failure) == nil {
			remote.Message = failure.Message
		}
		return remote
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", core.ErrMalformedResponse, err)
	}
	return nil
}
