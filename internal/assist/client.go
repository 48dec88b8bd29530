package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/project-pal/project-pal-backend/config"
)

// Client talks to the OpenRouter chat-completion endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	referer string
	title   string

	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a completion client from config. A missing API key is
// tolerated here; Complete reports it per call.
func NewClient(cfg config.OpenRouterConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		referer: cfg.Referer,
		title:   cfg.Title,
		httpClient: &http.Client{
			Timeout: CompletionTimeout,
		},
		// One user click per call; the limiter only catches runaway clients.
		limiter: rate.NewLimiter(rate.Limit(1), 5),
	}
}

// HasCredential reports whether an API key is configured.
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete issues one chat-completion POST and returns the trimmed reply
// content. A non-2xx status or an empty completion is an error.
func (c *Client) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	logger := NewLogger(ctx)

	if !c.HasCredential() {
		return "", ErrMissingCredential
	}
	if !c.limiter.Allow() {
		return "", ErrRateLimited
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("X-Title", c.title)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		logger.LogError("completion", err)
		recordCompletionCall(duration, err)
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.LogWarnf("completion", "upstream returned status %d", resp.StatusCode)
		recordCompletionCall(duration, fmt.Errorf("status %d", resp.StatusCode))
		return "", fmt.Errorf("OpenRouter error: %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		recordCompletionCall(duration, err)
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	recordCompletionCall(duration, nil)

	if len(out.Choices) == 0 {
		return "", ErrEmptyReply
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyReply
	}
	return content, nil
}
