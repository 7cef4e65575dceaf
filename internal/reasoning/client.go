package reasoning

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/spec-kit/overseer/internal/config"
)

// Request is one structured prompt sent to the reasoning service.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Usage reports token consumption for a single call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Response is the raw text answer from the reasoning service.
type Response struct {
	Content string
	Model   string
	Usage   Usage
}

// Client abstracts the external reasoning service. Implementations must be
// safe for concurrent use.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewAnthropicClient builds a client from configuration.
func NewAnthropicClient(cfg config.ReasoningConfig, logger *zap.Logger) *AnthropicClient {
	return &AnthropicClient{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		callTimeout: cfg.CallTimeout(),
		logger:      logger,
	}
}

// Complete issues one Messages call and returns the first text block.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(req.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: req.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	usage := Usage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			c.logger.Debug("reasoning response",
				zap.Int("size", len(block.Text)),
				zap.Int64("tokens_in", usage.InputTokens),
				zap.Int64("tokens_out", usage.OutputTokens))
			return &Response{Content: block.Text, Model: c.model, Usage: usage}, nil
		}
	}
	return nil, fmt.Errorf("no text content in anthropic response")
}
