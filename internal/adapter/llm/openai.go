package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/xiaot623/helpdesk/internal/domain"
)

// OpenAIClient talks to OpenAI or any OpenAI-compatible endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client for the given endpoint. An empty baseURL
// targets the standard OpenAI API.
func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete sends a single-user-message chat completion and returns the text.
// Rate-limiting failures are wrapped with domain.ErrRateLimited so callers
// can retry them.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	// The request struct tags temperature with omitempty, so an exact 0 would
	// be dropped from the payload and the provider default would apply. The
	// smallest nonzero float stands in for deterministic sampling.
	temperature := req.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: temperature,
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		if isRateLimit(err) {
			return "", fmt.Errorf("completion: %s: %w", err.Error(), domain.ErrRateLimited)
		}
		return "", fmt.Errorf("completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion: provider returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// isRateLimit detects HTTP 429 responses and rate_limit error payloads.
func isRateLimit(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "rate_limit")
}

// IsRateLimited reports whether the error is a transient rate-limiting
// failure that the orchestrator should retry.
func IsRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited)
}
