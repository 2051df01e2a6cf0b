package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"CompanyScout/internal/config"
	"CompanyScout/internal/ports"
	"CompanyScout/internal/retry"
)

const defaultTimeout = 30 * time.Second

// Client implements ports.ChatClient against OpenAI-compatible chat APIs (Groq by default).
type Client struct {
	api         openai.Client
	model       string
	temperature float64
	maxTokens   int64
}

var _ ports.ChatClient = (*Client)(nil)

// NewClient builds a client from configuration. SDK-level retries are off;
// callers own the retry policy.
func NewClient(cfg config.LLMConfig, extra ...option.RequestOption) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(withTrailingSlash(cfg.Endpoint)))
	}
	opts = append(opts, extra...)

	return &Client{
		api:         openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   int64(cfg.MaxTokens),
	}
}

// Complete requests a JSON-object reply for the system/user pair.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("llm client is nil")
	}
	if c.model == "" {
		return "", fmt.Errorf("llm client misconfigured: model is empty")
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(c.temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(c.maxTokens)
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classify marks rate limits, server errors and transport failures as transient.
func classify(err error) error {
	wrapped := fmt.Errorf("chat completion: %w", err)

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if retry.IsTransientStatus(apiErr.StatusCode) {
			return retry.NewTransientError(wrapped, apiErr.StatusCode)
		}
		return wrapped
	}
	if errors.Is(err, context.Canceled) {
		return wrapped
	}
	return retry.NewTransientError(wrapped, 0)
}

func withTrailingSlash(endpoint string) string {
	if strings.HasSuffix(endpoint, "/") {
		return endpoint
	}
	return endpoint + "/"
}
