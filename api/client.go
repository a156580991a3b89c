// Package api is the HTTP transport for the Tessera backend.
//
// It is a thin layer: JSON in, JSON out, one request per call, no retries
// and no backoff. Every request carries a generated X-Request-ID so a
// failure can be correlated with backend logs; error responses decode into
// *Error. Everything above this package (verification, caching, result
// shaping) lives elsewhere.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the backend root, e.g. "https://tessera.example.com".
	BaseURL string

	// APIKey is sent as a bearer token on every request. Empty disables
	// authentication.
	APIKey string

	// Timeout bounds each request end to end. Zero means 30 seconds.
	Timeout time.Duration

	// HTTPClient overrides the underlying client. Timeout is ignored when
	// set; configure the override instead.
	HTTPClient *http.Client

	// Logger receives a debug line per request. nil disables logging.
	Logger *slog.Logger
}

// Client talks to one Tessera backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a backend client from the given options.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		http:    httpClient,
		logger:  opts.Logger,
	}, nil
}

// Ping probes the backend's status endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/status", nil, nil, nil)
}

// do runs one request: marshal body, attach headers and request ID, decode
// the response into out (when non-nil) or an *Error for statuses >= 400.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Debug("backend request",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"request_id", requestID,
			"duration_ms", time.Since(start).Milliseconds())
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp, requestID)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError reads an error response into *Error. The backend usually
// sends {"error": "...", "code": "..."}; anything else becomes the raw body.
func decodeError(resp *http.Response, requestID string) error {
	apiErr := &Error{Status: resp.StatusCode, RequestID: requestID}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(body) > 0 {
		var payload struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Code = payload.Code
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// docPath joins escaped path segments under /api/docs.
func docPath(doc string, parts ...string) string {
	segs := make([]string, 0, len(parts)+2)
	segs = append(segs, "/api/docs", url.PathEscape(doc))
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return strings.Join(segs, "/")
}
