package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrUnavailable means the feed could not be obtained at all, from either
// the network or a local capture file.
var ErrUnavailable = errors.New("feed unavailable")

// ChannelFeedURL returns the public Atom feed URL for a channel id.
func ChannelFeedURL(channelID string) string {
	return "https://www.youtube.com/feeds/videos.xml?channel_id=" + channelID
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// IsFeedFile reports whether target names a local feed capture rather than
// a channel id, judged by its file extension.
func IsFeedFile(target string) bool {
	switch strings.ToLower(filepath.Ext(target)) {
	case ".xml", ".rss", ".atom":
		return true
	}
	return false
}

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SourceOption configures the Source.
type SourceOption func(*Source)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) SourceOption {
	return func(s *Source) {
		s.httpClient = httpClient
	}
}

// WithBaseURL overrides the feed URL built from a channel id (useful for testing).
func WithBaseURL(url string) SourceOption {
	return func(s *Source) {
		s.baseURL = url
	}
}

// WithMaxTries caps the number of fetch attempts for transient HTTP failures.
func WithMaxTries(n uint) SourceOption {
	return func(s *Source) {
		s.maxTries = n
	}
}

// Source obtains raw feed bytes for a channel id or a local capture file.
type Source struct {
	httpClient HTTPClient
	baseURL    string
	maxTries   uint
}

// NewSource creates a feed source.
func NewSource(opts ...SourceOption) *Source {
	s := &Source{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxTries:   3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the raw feed content for target. A target with a feed file
// extension is read from disk; anything else is treated as a channel id and
// fetched from the public feed endpoint, retrying transient HTTP failures.
func (s *Source) Fetch(ctx context.Context, target string) ([]byte, error) {
	if IsFeedFile(target) {
		data, err := os.ReadFile(target)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, target, err)
		}
		return data, nil
	}

	fetchURL := ChannelFeedURL(target)
	if s.baseURL != "" {
		fetchURL = strings.TrimRight(s.baseURL, "/") + "/feeds/videos.xml?channel_id=" + target
	}

	data, err := s.fetchWithRetry(ctx, fetchURL)
	if err != nil {
		return nil, fmt.Errorf("%w: channel %s: %v", ErrUnavailable, target, err)
	}
	return data, nil
}

// fetchWithRetry performs an HTTP GET with exponential backoff on transient
// status codes. Transport errors and non-retryable statuses fail immediately.
func (s *Source) fetchWithRetry(ctx context.Context, fetchURL string) ([]byte, error) {
	operation := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/atom+xml,application/xml;q=0.9,*/*;q=0.8")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		defer func() { _ = resp.Body.Close() }()

		if isRetryableStatus(resp.StatusCode) {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		return body, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 10 * time.Second

	return backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(s.maxTries))
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
