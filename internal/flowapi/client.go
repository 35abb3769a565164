// Package flowapi calls the external workflow API that executes predefined
// service flows. The routing engine never calls this itself; the service
// layer does, after a triggered decision.
package flowapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client triggers flows on the external workflow API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Config holds flow API client configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a flow API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("flowapi: base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}, nil
}

// TriggerRequest asks the workflow API to start one flow.
type TriggerRequest struct {
	TriggerID string            `json:"triggerId"`
	SessionID string            `json:"sessionId,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// TriggerResponse is the workflow API's acknowledgement.
type TriggerResponse struct {
	Accepted  bool   `json:"accepted"`
	FlowRunID string `json:"flowRunId,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Trigger starts the flow identified by req.TriggerID.
func (c *Client) Trigger(ctx context.Context, req TriggerRequest) (*TriggerResponse, error) {
	if req.TriggerID == "" {
		return nil, fmt.Errorf("flowapi: trigger ID is required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal trigger request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/flows/trigger", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create trigger request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("trigger request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read trigger response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("flow API status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed TriggerResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse trigger response: %w", err)
	}
	return &parsed, nil
}
