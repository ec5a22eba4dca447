package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"SocialForge/internal/config"
	"SocialForge/internal/ports"
)

// AnthropicClient generates text through the official Anthropic SDK.
type AnthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	hasKey    bool
}

var _ ports.TextGenerator = (*AnthropicClient)(nil)
var _ ports.ModelLister = (*AnthropicClient)(nil)

// NewAnthropicClient builds a client from configuration.
func NewAnthropicClient(cfg config.AnthropicConfig) *AnthropicClient {
	return &AnthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		hasKey:    cfg.APIKey != "",
	}
}

// Complete sends the prompt as a single user message.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.hasKey || c.model == "" {
		return "", fmt.Errorf("%w: anthropic client misconfigured", ErrProvider)
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: anthropic: %v", ErrProvider, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	reply := strings.TrimSpace(b.String())
	if reply == "" {
		return "", fmt.Errorf("%w: anthropic returned no text content", ErrProvider)
	}
	return reply, nil
}

// ListModels enumerates the models visible to the configured key.
func (c *AnthropicClient) ListModels(ctx context.Context) ([]string, error) {
	if !c.hasKey {
		return nil, fmt.Errorf("%w: anthropic client misconfigured", ErrProvider)
	}

	page, err := c.client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, fmt.Errorf("%w: anthropic list models: %v", ErrProvider, err)
	}

	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		names = append(names, m.ID)
	}
	return names, nil
}
