package importer

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

// Client fetches clip descriptors from the animation service over HTTP.
//
// Fetching is the only operation in the import path with externally visible
// latency. Every request is bounded by the configured timeout, failures are
// retried a bounded number of times with a constant backoff, and a batch
// fetch never aborts on one clip's failure. Cancellation is caller-driven
// through the context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client (for tests or custom
// transports).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each individual request attempt.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) ClientOption {
	return func(c *Client) { c.retries = n }
}

// WithBackoff sets the constant delay between retry attempts.
func WithBackoff(d time.Duration) ClientOption {
	return func(c *Client) { c.backoff = d }
}

// NewClient creates a clip service client with a 10s per-request timeout,
// 2 retries, and 250ms backoff unless configured otherwise.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retries:    2,
		backoff:    250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status fetches the descriptor for one clip ID.
//
// Transport failures and 5xx responses are retried; 4xx responses are not,
// since the service has given a definitive answer. A descriptor with a
// non-completed status is returned as-is; mapping "processing" to a
// not-ready import issue is the importer's job, not the transport's.
func (c *Client) Status(ctx context.Context, id string) (Descriptor, error) {
	endpoint := fmt.Sprintf("%s/status/%s", c.baseURL, url.PathEscape(id))

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			slog.Debug("retrying clip status fetch",
				"clip_id", id,
				"attempt", attempt,
				"backoff", c.backoff,
			)
			select {
			case <-ctx.Done():
				return Descriptor{}, ctx.Err()
			case <-time.After(c.backoff):
			}
		}

		desc, retryable, err := c.statusOnce(ctx, endpoint, id)
		if err == nil {
			return desc, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return Descriptor{}, fmt.Errorf("fetch status for clip %s: %w", id, lastErr)
}

func (c *Client) statusOnce(ctx context.Context, endpoint, id string) (Descriptor, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Descriptor{}, false, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Descriptor{}, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return Descriptor{}, true, fmt.Errorf("clip service returned %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return Descriptor{}, false, fmt.Errorf("clip service returned %d", resp.StatusCode)
	}

	var desc Descriptor
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return Descriptor{}, false, fmt.Errorf("decode descriptor: %w", err)
	}
	if desc.ID == "" {
		desc.ID = id
	}
	return desc, false, nil
}

// FetchResult pairs one requested clip ID with its outcome.
type FetchResult struct {
	ID         string
	Descriptor Descriptor
	Err        error
}

// FetchAll fetches descriptors for a batch of clip IDs. One clip's failure
// never aborts the batch; every requested ID gets exactly one result, in
// request order.
func (c *Client) FetchAll(ctx context.Context, ids []string) []FetchResult {
	results := make([]FetchResult, 0, len(ids))
	for _, id := range ids {
		desc, err := c.Status(ctx, id)
		if err != nil {
			slog.Warn("clip descriptor fetch failed", "clip_id", id, "error", err)
		}
		results = append(results, FetchResult{ID: id, Descriptor: desc, Err: err})

		// A cancelled context fails everything that remains; no point
		// hammering the service.
		if ctx.Err() != nil {
			for _, rest := range ids[len(results):] {
				results = append(results, FetchResult{ID: rest, Err: ctx.Err()})
			}
			break
		}
	}
	return results
}

// DescriptorMap indexes successful fetch results by clip ID for Import.
func DescriptorMap(results []FetchResult) map[string]Descriptor {
	descs := make(map[string]Descriptor, len(results))
	for _, r := range results {
		if r.Err == nil {
			descs[r.ID] = r.Descriptor
		}
	}
	return descs
}
