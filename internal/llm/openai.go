package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/joestump/joe-copilot/internal/config"
	"github.com/joestump/joe-copilot/internal/prompt"
)

const defaultOpenAIModel = openai.GPT4oMini

type openaiClient struct {
	client    *openai.Client
	provider  string
	model     string
	maxTokens int
}

func newOpenAIClient(cfg *config.Config) *openaiClient {
	model := cfg.LLM.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	oc := openai.DefaultConfig(cfg.LLM.APIKey)
	if cfg.LLM.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.LLM.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.LLM.Timeout}
	return &openaiClient{
		client:    openai.NewClientWithConfig(oc),
		provider:  cfg.LLM.Provider,
		model:     model,
		maxTokens: cfg.LLM.MaxTokens,
	}
}

func (o *openaiClient) Provider() string { return o.provider }

func (o *openaiClient) Complete(ctx context.Context, messages []prompt.Message) (*Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages:  make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    openaiRole(m.Role),
			Content: m.Content,
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("openai API returned %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from openai")
	}

	return &Completion{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		InputTokens:  int64(resp.Usage.PromptTokens),
		OutputTokens: int64(resp.Usage.CompletionTokens),
	}, nil
}

func openaiRole(r prompt.Role) string {
	switch r {
	case prompt.RoleSystem:
		return openai.ChatMessageRoleSystem
	case prompt.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
