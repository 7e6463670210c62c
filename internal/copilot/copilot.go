// Package copilot ties an organization's stored catalog to prompt assembly
// and, when a provider is configured, to a chat model round trip.
package copilot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joestump/joe-copilot/internal/catalog"
	"github.com/joestump/joe-copilot/internal/llm"
	"github.com/joestump/joe-copilot/internal/metrics"
	"github.com/joestump/joe-copilot/internal/prompt"
	"github.com/joestump/joe-copilot/internal/reply"
)

var (
	// ErrChatDisabled is returned by Chat when no LLM provider is configured.
	ErrChatDisabled = errors.New("chat is disabled: no LLM provider configured")

	// ErrCompletion wraps failures of the model round trip.
	ErrCompletion = errors.New("chat completion failed")
)

// CatalogLoader loads an organization's info and ordered pages.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, orgID string) (catalog.OrgInfo, []catalog.Page, error)
}

// Request describes one turn of a copilot conversation.
type Request struct {
	OrgID           string           `json:"-"`
	Page            string           `json:"page"`
	Language        string           `json:"language,omitempty"`
	UserDescription string           `json:"user_description,omitempty"`
	History         []prompt.Message `json:"history,omitempty"`
	// Message, when set, is appended to History as the latest user turn.
	Message string `json:"message,omitempty"`
}

// ChatResult is an assembled prompt together with the model's answer.
type ChatResult struct {
	Messages   []prompt.Message `json:"messages"`
	Completion *llm.Completion  `json:"completion"`
	Reply      *reply.Reply     `json:"reply,omitempty"`
	ParseError string           `json:"parse_error,omitempty"`
}

// Service builds prompts from stored catalogs. LLM may be nil.
type Service struct {
	Catalogs        CatalogLoader
	LLM             llm.Client
	Assembler       prompt.Assembler
	DefaultLanguage string
}

// ChatEnabled reports whether Chat can reach a model.
func (s *Service) ChatEnabled() bool {
	return s.LLM != nil
}

// BuildPrompt loads the organization's catalog and assembles the message list
// for req.Page. An unknown page yields an error wrapping prompt.ErrPageNotFound.
func (s *Service) BuildPrompt(ctx context.Context, req Request) ([]prompt.Message, error) {
	org, pages, err := s.Catalogs.LoadCatalog(ctx, req.OrgID)
	if err != nil {
		metrics.PromptsAssembledTotal.WithLabelValues("catalog_error").Inc()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	language := req.Language
	if language == "" {
		language = s.DefaultLanguage
	}
	history := req.History
	if req.Message != "" {
		history = append(append(make([]prompt.Message, 0, len(history)+1), history...),
			prompt.Message{Role: prompt.RoleUser, Content: req.Message})
	}

	messages, err := s.Assembler.Assemble(history, pages, req.UserDescription, req.Page, org, language)
	if err != nil {
		if errors.Is(err, prompt.ErrPageNotFound) {
			metrics.PromptsAssembledTotal.WithLabelValues("page_not_found").Inc()
		} else {
			metrics.PromptsAssembledTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.PromptsAssembledTotal.WithLabelValues("ok").Inc()
	metrics.PromptCommands.Observe(float64(commandCount(pages, req.Page)))
	return messages, nil
}

// Chat assembles the prompt and sends it to the model. A reply that does not
// follow the response format is still returned, with ParseError set.
func (s *Service) Chat(ctx context.Context, req Request) (*ChatResult, error) {
	if s.LLM == nil {
		return nil, ErrChatDisabled
	}
	messages, err := s.BuildPrompt(ctx, req)
	if err != nil {
		return nil, err
	}

	provider := s.LLM.Provider()
	start := time.Now()
	completion, err := s.LLM.Complete(ctx, messages)
	metrics.ChatCompletionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ChatCompletionsTotal.WithLabelValues(provider, "error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrCompletion, err)
	}
	metrics.ChatCompletionsTotal.WithLabelValues(provider, "ok").Inc()

	result := &ChatResult{Messages: messages, Completion: completion}
	parsed, err := reply.Parse(completion.Content)
	if err != nil {
		metrics.ReplyParseErrorsTotal.Inc()
		log.Printf("copilot: parse %s reply: %v", provider, err)
		result.ParseError = err.Error()
		return result, nil
	}
	result.Reply = parsed
	return result, nil
}

// commandCount is the number of entries in the rendered command list.
func commandCount(pages []catalog.Page, current string) int {
	page, _ := catalog.Find(pages, current)
	n := len(page.Actions)
	if len(catalog.Except(pages, current)) > 0 {
		n++
	}
	return n
}
