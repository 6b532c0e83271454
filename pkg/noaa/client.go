package noaa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRetries = 2
	defaultBackoff = 800 * time.Millisecond
)

// Client issues search and file requests against the paleo study service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retries    int
	backoff    time.Duration
	log        *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the search endpoint, mainly for tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetries sets the retry count for failed requests.
func WithRetries(n int) ClientOption {
	return func(c *Client) { c.retries = n }
}

// WithClientLogger sets the logger.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient builds a Client with sane timeouts and retry defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    BaseURL,
		retries:    defaultRetries,
		backoff:    defaultBackoff,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs a study search. A 204 from the service means no studies
// matched and yields an empty slice, not an error.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Study, []string, error) {
	q, notes, err := params.BuildQuery()
	if err != nil {
		return nil, nil, err
	}

	reqURL := c.baseURL + "?" + q.Encode()
	resp, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, notes, err
	}
	defer resp.Body.Close() // nolint: errcheck

	if resp.StatusCode == http.StatusNoContent {
		c.log.Info("search returned no studies", "url", reqURL)
		return nil, notes, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, notes, fmt.Errorf("search request failed: %s", resp.Status)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, notes, fmt.Errorf("decoding search response: %w", err)
	}
	return sr.Study, notes, nil
}

// FetchFile downloads a study data file and returns its bytes plus a name
// hint derived from the URL path.
func (c *Client) FetchFile(ctx context.Context, fileURL string) ([]byte, string, error) {
	resp, err := c.getWithRetry(ctx, fileURL)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close() // nolint: errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetching %s: %s", fileURL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", fileURL, err)
	}

	name := fileURL
	if u, uerr := url.Parse(fileURL); uerr == nil && u.Path != "" {
		name = u.Path
	}
	return data, name, nil
}

// getWithRetry performs a GET with exponential backoff. Only transport
// errors retry; HTTP error statuses are returned to the caller.
func (c *Client) getWithRetry(ctx context.Context, u string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * (1 << (attempt - 1))
			c.log.Debug("retrying request", "url", u, "attempt", attempt, "wait", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retries+1, lastErr)
}
