// Package genai turns retrieved catalog passages into a prose answer via a
// hosted chat-completions API. It is only ever called with passages that
// came through the match-or-retrieve pipeline.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const systemPrompt = `You are a customer service assistant for a telecom service catalog.
Answer the user's question using ONLY the catalog passages provided.
Reply in the same language and script the question was asked in (English, Bengali, or Bengali in Latin letters).
If the passages do not answer the question, say you cannot help with that.`

// Client generates grounded answers from retrieved passages.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
}

// Config holds answer generation settings.
type Config struct {
	APIKey    string
	Model     string // e.g. "google/gemini-2.5-flash"
	BaseURL   string // default https://openrouter.ai/api/v1
	MaxTokens int
	Timeout   time.Duration
}

// NewClient creates an answer generation client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("genai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "google/gemini-2.5-flash"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 512
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Answer generates a prose answer to the question from the passages.
func (c *Client) Answer(ctx context.Context, question string, passages []string) (string, error) {
	if len(passages) == 0 {
		return "", fmt.Errorf("genai: no passages to answer from")
	}

	var b strings.Builder
	b.WriteString("Catalog passages:\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: b.String()},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse chat response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("chat API error: %s (%s)", parsed.Error.Message, parsed.Error.Code)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
