// Package transcript retrieves video transcripts from YouTube's caption
// tracks.
//
// This package enables tubedigest to:
// - Locate a video's first caption track from its watch page
// - Fetch and decode the timedtext XML for that track
// - Return the transcript as one plain-text string
package transcript

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// ErrUnavailable means the video's transcript could not be retrieved, either
// because the video has no caption track or because a fetch failed.
var ErrUnavailable = errors.New("transcript unavailable")

const defaultBaseURL = "https://www.youtube.com"

// captionTrackPattern locates the first caption track baseUrl embedded in
// the watch page's player response JSON.
var captionTrackPattern = regexp.MustCompile(`"captionTracks":\s*\[\s*\{\s*"baseUrl":\s*"([^"]+)"`)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// Client fetches video transcripts.
type Client struct {
	httpClient HTTPClient
	baseURL    string
}

// NewClient creates a new transcript client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the transcript of a video as a single string, caption
// fragments joined by spaces.
func (c *Client) Fetch(ctx context.Context, videoID string) (string, error) {
	page, err := c.get(ctx, c.baseURL+"/watch?v="+videoID)
	if err != nil {
		return "", fmt.Errorf("%w: video %s: %v", ErrUnavailable, videoID, err)
	}

	trackURL, err := captionTrackURL(page)
	if err != nil {
		return "", fmt.Errorf("%w: video %s: %v", ErrUnavailable, videoID, err)
	}

	raw, err := c.get(ctx, trackURL)
	if err != nil {
		return "", fmt.Errorf("%w: video %s: captions: %v", ErrUnavailable, videoID, err)
	}

	text, err := parseTimedText(raw)
	if err != nil {
		return "", fmt.Errorf("%w: video %s: %v", ErrUnavailable, videoID, err)
	}
	return text, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// captionTrackURL extracts the first caption track URL from the watch page.
// The URL is JSON-escaped inside the page.
func captionTrackURL(page []byte) (string, error) {
	match := captionTrackPattern.FindSubmatch(page)
	if match == nil {
		return "", errors.New("no caption tracks")
	}
	url := string(match[1])
	url = strings.ReplaceAll(url, `\u0026`, "&")
	url = strings.ReplaceAll(url, `\/`, "/")
	return url, nil
}

// timedText mirrors YouTube's caption XML: <transcript><text ...>fragment</text>...
type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

func parseTimedText(data []byte) (string, error) {
	var doc timedText
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("failed to parse captions: %w", err)
	}

	fragments := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		fragment := strings.TrimSpace(html.UnescapeString(t.Value))
		if fragment == "" {
			continue
		}
		fragments = append(fragments, fragment)
	}
	if len(fragments) == 0 {
		return "", errors.New("caption track is empty")
	}
	return strings.Join(fragments, " "), nil
}
