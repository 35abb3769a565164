// Package assistant provides the public Go SDK for the catalog assistant API.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the public SDK client for the catalog assistant API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientConfig holds client configuration.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a new catalog assistant client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8090"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// QueryRequest represents a chat query request.
type QueryRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message"`
}

// QueryResponse represents a chat query response.
type QueryResponse struct {
	Type      string   `json:"type"` // flow_triggered, answer, or no_answer
	TriggerID string   `json:"triggerId,omitempty"`
	FlowRunID string   `json:"flowRunId,omitempty"`
	Answer    string   `json:"answer,omitempty"`
	Sources   []Source `json:"sources,omitempty"`
	LatencyMs int64    `json:"latencyMs"`
}

// Source represents one retrieved catalog passage backing an answer.
type Source struct {
	NodeID  string  `json:"nodeId"`
	Label   string  `json:"label"`
	Content string  `json:"content"`
	Score   float32 `json:"score"`
}

// GenerationInfo describes the currently published catalog generation.
type GenerationInfo struct {
	Generation uint64    `json:"generation"`
	LoadedAt   time.Time `json:"loadedAt"`
	Documents  int       `json:"documents"`
	Triggers   int       `json:"triggers"`
	Keywords   int       `json:"keywords"`
}

// Query sends a chat message and returns the routing outcome.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	var resp QueryResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/chat/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReloadCatalog reloads the catalog file on the server and publishes a new
// generation. The previous generation stays live if the reload fails.
func (c *Client) ReloadCatalog(ctx context.Context) (*GenerationInfo, error) {
	var info GenerationInfo
	if err := c.do(ctx, http.MethodPost, "/api/v1/catalog/reload", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CatalogInfo returns the currently published catalog generation.
func (c *Client) CatalogInfo(ctx context.Context) (*GenerationInfo, error) {
	var info GenerationInfo
	if err := c.do(ctx, http.MethodGet, "/api/v1/catalog/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Health checks the service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
