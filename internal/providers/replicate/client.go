// Package replicate implements provider adapters backed by the Replicate
// predictions API.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL      = "https://api.replicate.com"
	defaultHTTPTimeout  = 30 * time.Second
	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 120 * time.Second
)

// Client wraps the Replicate predictions API.
type Client struct {
	token        string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// Option customizes the Replicate client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithPollInterval overrides how often prediction status is polled.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithPollTimeout overrides how long to wait for a prediction overall.
func WithPollTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.pollTimeout = timeout
		}
	}
}

// NewClient constructs a Replicate API client.
func NewClient(token string, opts ...Option) *Client {
	client := &Client{
		token:        strings.TrimSpace(token),
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

type predictionRequest struct {
	Version string         `json:"version,omitempty"`
	Input   map[string]any `json:"input"`
}

// Predict starts a prediction for the given model version and polls until it
// reaches a terminal status, returning the first output URL.
func (c *Client) Predict(ctx context.Context, version string, input map[string]any) (string, error) {
	if strings.TrimSpace(c.token) == "" {
		return "", errors.New("replicate: api token required")
	}
	if strings.TrimSpace(version) == "" {
		return "", errors.New("replicate: model version required")
	}

	created, err := c.createPrediction(ctx, version, input)
	if err != nil {
		return "", err
	}

	deadline := time.Now().Add(c.pollTimeout)
	current := created
	for !isTerminal(current.Status) {
		if time.Now().After(deadline) {
			return "", fmt.Errorf("replicate: prediction %s timed out after %s", created.ID, c.pollTimeout)
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("replicate: prediction %s: %w", created.ID, ctx.Err())
		case <-time.After(c.pollInterval):
		}
		current, err = c.getPrediction(ctx, created.ID)
		if err != nil {
			return "", err
		}
	}

	if current.Status != "succeeded" {
		message := strings.TrimSpace(current.Error)
		if message == "" {
			message = current.Status
		}
		return "", fmt.Errorf("replicate: prediction %s failed: %s", created.ID, message)
	}

	output, err := firstOutputURL(current.Output)
	if err != nil {
		return "", fmt.Errorf("replicate: prediction %s: %w", created.ID, err)
	}
	return output, nil
}

func (c *Client) createPrediction(ctx context.Context, version string, input map[string]any) (prediction, error) {
	var empty prediction
	endpoint, err := url.JoinPath(c.baseURL, "/v1/predictions")
	if err != nil {
		return empty, fmt.Errorf("replicate: build url: %w", err)
	}

	encoded, err := json.Marshal(predictionRequest{Version: version, Input: input})
	if err != nil {
		return empty, fmt.Errorf("replicate: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return empty, fmt.Errorf("replicate: build request: %w", err)
	}
	c.setHeaders(req)

	return c.doPrediction(req)
}

func (c *Client) getPrediction(ctx context.Context, id string) (prediction, error) {
	var empty prediction
	endpoint, err := url.JoinPath(c.baseURL, "/v1/predictions", id)
	if err != nil {
		return empty, fmt.Errorf("replicate: build url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return empty, fmt.Errorf("replicate: build request: %w", err)
	}
	c.setHeaders(req)

	return c.doPrediction(req)
}

func (c *Client) doPrediction(req *http.Request) (prediction, error) {
	var empty prediction
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, fmt.Errorf("replicate: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return empty, fmt.Errorf("replicate: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return empty, fmt.Errorf("replicate: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var pred prediction
	if err := json.Unmarshal(body, &pred); err != nil {
		return empty, fmt.Errorf("replicate: decode response: %w", err)
	}
	return pred, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
}

func isTerminal(status string) bool {
	switch status {
	case "succeeded", "failed", "canceled":
		return true
	}
	return false
}

// firstOutputURL extracts a usable content URL from a prediction output,
// which Replicate returns either as a single string or a list of strings.
func firstOutputURL(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("empty output")
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return single, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 && many[0] != "" {
		return many[0], nil
	}
	return "", errors.New("output contained no content URL")
}
