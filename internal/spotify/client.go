package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oakmoss/tonearm/internal/shared"
	"golang.org/x/time/rate"
)

// UpstreamError reports a >= 400 response from the resource API, carrying the
// request path, HTTP status, and response body.
type UpstreamError struct {
	Path   string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("spotify %s failed: HTTP %d: %s", e.Path, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return shared.ErrUpstream }

// NotFound reports whether the upstream rejected the request with a 404.
func (e *UpstreamError) NotFound() bool { return e.Status == http.StatusNotFound }

// ClientOpts configures the accessor.
type ClientOpts struct {
	Timeout   time.Duration // outbound request timeout (default 15s)
	RateLimit float64       // requests per second (default 5)
	BaseURL   string        // override for tests
	Logger    *log.Logger
}

// Client is the authenticated accessor for the Spotify resource API. All
// requests obtain a token from the [TokenStore] first and pass through the
// client-side rate limiter.
type Client struct {
	store      *TokenStore
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates an accessor sharing a token store.
func NewClient(store *TokenStore, opts ClientOpts) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Client{
		store:      store,
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:     opts.Logger,
	}
}

// Store exposes the underlying token store for status reporting.
func (c *Client) Store() *TokenStore { return c.store }

// Get performs an authenticated GET against a relative resource path and
// decodes the JSON response into result.
func (c *Client) Get(ctx context.Context, path string, params url.Values, result any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, result)
}

// Post performs an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, result any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

// GetRaw performs a GET and returns the raw JSON response for pass-through
// tools.
func (c *Client) GetRaw(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, path, params, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", shared.ErrTransport, err)
	}

	token, err := c.store.Token(ctx)
	if err != nil {
		return err
	}

	apiURL := c.baseURL + "/" + path
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("spotify request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response for %s: %v", shared.ErrTransport, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("spotify API error", "path", path, "status", resp.StatusCode)
		return &UpstreamError{Path: path, Status: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response for %s: %w", path, err)
		}
	}

	return nil
}
