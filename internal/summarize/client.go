// Package summarize provides a client for the OpenAI Responses API.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrTransform means the summarization call failed or returned nothing usable.
var ErrTransform = errors.New("summarization failed")

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o-mini"
)

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

// WithModel overrides the model used for summarization.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// Client summarizes text through the OpenAI Responses API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient HTTPClient
}

// NewClient creates a summarizer with the given API key. The key lives on
// the client, scoped to it, never in package state.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Summarize returns a summary of text.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(responsesRequest{
		Model: c.model,
		Input: "Summarize the following transcript:\n" + text,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", ErrTransform, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/responses", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", ErrTransform, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransform, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrTransform, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.handleAPIError(resp.StatusCode)
	}

	var parsed responsesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: parsing response: %v", ErrTransform, err)
	}

	summary := parsed.outputText()
	if summary == "" {
		return "", fmt.Errorf("%w: response contained no output text", ErrTransform)
	}
	return summary, nil
}

func (c *Client) handleAPIError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: authentication failed - check OPENAI_API_KEY", ErrTransform)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limit or quota exceeded - please try again later", ErrTransform)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return fmt.Errorf("%w: OpenAI API server error - please try again later", ErrTransform)
	default:
		return fmt.Errorf("%w: OpenAI API error (status %d)", ErrTransform, statusCode)
	}
}

// API request/response types (private - implementation detail)

type responsesRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// outputText concatenates every output_text part of the response.
func (r responsesResponse) outputText() string {
	var parts []string
	for _, item := range r.Output {
		for _, content := range item.Content {
			if content.Type == "output_text" && content.Text != "" {
				parts = append(parts, content.Text)
			}
		}
	}
	return strings.Join(parts, "")
}
