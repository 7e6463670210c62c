package llm

import (
	"context"
	"fmt"

	"github.com/joestump/joe-copilot/internal/config"
	"github.com/joestump/joe-copilot/internal/prompt"
)

// Completion is the model's answer to one chat request.
type Completion struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
}

// Client sends an assembled conversation to a chat-completion provider.
type Client interface {
	Complete(ctx context.Context, messages []prompt.Message) (*Completion, error)
	// Provider names the backend, for metrics and logs.
	Provider() string
}

// New creates a Client based on the config. Returns nil when the provider is
// unset, meaning chat is disabled and only prompt assembly is served.
func New(cfg *config.Config) (Client, error) {
	switch cfg.LLM.Provider {
	case "":
		return nil, nil
	case "anthropic":
		return newAnthropicClient(cfg), nil
	case "openai", "openai-compatible":
		return newOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.LLM.Provider)
	}
}
