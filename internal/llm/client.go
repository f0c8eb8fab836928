package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/fundlens/fundlens/internal/logger"
)

// Completer is the minimal text-completion surface the planner and
// explainer depend on. It keeps the network client out of the service
// layer and lets tests substitute canned responses.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}

// AnthropicClient implements Completer using the Anthropic API.
type AnthropicClient struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropicClient builds a client for the given credential and model.
func NewAnthropicClient(apiKey, model string, maxTokens int64) *AnthropicClient {
	return &AnthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     anthropic.Model(model),
		maxTokens: maxTokens,
	}
}

// Complete sends one system+user prompt pair and returns the response text.
// No retries: callers degrade on error instead of backing off.
func (c *AnthropicClient) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	start := time.Now()

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(temperature),
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		logger.L().Error().Err(err).Dur("duration", time.Since(start)).Msg("anthropic call failed")
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	logger.L().Debug().
		Dur("duration", time.Since(start)).
		Str("stop_reason", string(msg.StopReason)).
		Msg("anthropic call completed")

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}
