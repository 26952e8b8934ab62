package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one entry of an OpenAI-style chat-completions conversation.
type Message struct {
	Role    string `json:"role"` // system | user | assistant
	Content string `json:"content"`
}

// Config holds the upstream chat-completions endpoint settings.
type Config struct {
	URL     string
	Key     string
	Model   string
	Timeout time.Duration
}

const (
	defaultTimeout = 15 * time.Second
	maxTimeout     = 60 * time.Second

	// Upstream bodies are capped before reading; error snippets are capped
	// again before logging so a huge response cannot flood the log.
	maxBodyBytes    = 1 << 20
	maxErrorSnippet = 500
)

// ErrBadResponse means the upstream answered but the payload was unusable.
var ErrBadResponse = errors.New("invalid completion response")

// Client calls an external OpenAI-compatible chat-completions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Timeout > maxTimeout {
		cfg.Timeout = maxTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Error   json.RawMessage `json:"error,omitempty"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation upstream and returns the first choice's
// content verbatim. Any transport failure, error status, error field or
// missing content is reported as a single error; callers never see partial
// or garbled completions.
func (c *Client) Complete(ctx context.Context, msgs []Message, maxTokens int, temperature float64) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.cfg.Model,
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: status %d: %s", ErrBadResponse, resp.StatusCode, snippet(raw))
	}

	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %s", ErrBadResponse, snippet(raw))
	}
	if len(parsed.Error) > 0 && string(parsed.Error) != "null" {
		return "", fmt.Errorf("%w: upstream error: %s", ErrBadResponse, snippet(parsed.Error))
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no completion content", ErrBadResponse)
	}
	return parsed.Choices[0].Message.Content, nil
}

func snippet(b []byte) string {
	if len(b) > maxErrorSnippet {
		b = b[:maxErrorSnippet]
	}
	return string(b)
}
