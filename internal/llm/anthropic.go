package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joestump/joe-copilot/internal/config"
	"github.com/joestump/joe-copilot/internal/prompt"
)

const defaultAnthropicModel = "claude-haiku-4-5"

type anthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

func newAnthropicClient(cfg *config.Config) *anthropicClient {
	model := cfg.LLM.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.LLM.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.LLM.Timeout}),
	}
	if cfg.LLM.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.LLM.BaseURL))
	}
	return &anthropicClient{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: cfg.LLM.MaxTokens,
	}
}

func (a *anthropicClient) Provider() string { return "anthropic" }

// Complete moves system messages into the System parameter; the Messages API
// only accepts user and assistant turns.
func (a *anthropicClient) Complete(ctx context.Context, messages []prompt.Message) (*Completion, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(a.maxTokens),
		Temperature: anthropic.Float(0),
	}
	for _, m := range messages {
		switch m.Role {
		case prompt.RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		case prompt.RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if len(params.Messages) == 0 {
		return nil, fmt.Errorf("anthropic request needs at least one user message")
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic request: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from anthropic")
	}

	return &Completion{
		Content:      text.String(),
		Model:        string(msg.Model),
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}, nil
}
