// Package engine implements the LLM-facing half of the assistant: memory
// extraction from conversations and personality-styled reply generation.
// Both are built on a single Completer interface so tests can run against a
// deterministic fake.
package engine

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is the Claude model used when none is configured.
const DefaultModel = "claude-sonnet-4-20250514"

const defaultMaxTokens = 4096

// Completer issues a single prompt to an LLM and returns the text response.
// Extraction and generation both go through this interface.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Client is a Completer backed by the Anthropic API.
type Client struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithModel overrides the default Claude model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithMaxTokens overrides the default response token limit.
func WithMaxTokens(n int64) ClientOption {
	return func(c *Client) {
		c.maxTokens = n
	}
}

// NewClient creates a Claude-backed completer.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	apiClient := anthropic.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client:    &apiClient,
		model:     DefaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends a single user message with the given system prompt and
// returns the concatenated text blocks of the response.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: system},
		}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}
