package copilot_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/joestump/joe-copilot/internal/catalog"
	"github.com/joestump/joe-copilot/internal/copilot"
	"github.com/joestump/joe-copilot/internal/llm"
	"github.com/joestump/joe-copilot/internal/prompt"
	"github.com/joestump/joe-copilot/internal/reply"
)

var errNoOrg = errors.New("no such org")

type fakeLoader struct {
	org   catalog.OrgInfo
	pages []catalog.Page
}

func (f *fakeLoader) LoadCatalog(_ context.Context, orgID string) (catalog.OrgInfo, []catalog.Page, error) {
	if orgID != "org-1" {
		return catalog.OrgInfo{}, nil, errNoOrg
	}
	return f.org, f.pages, nil
}

type fakeLLM struct {
	content string
	err     error
	got     []prompt.Message
}

func (f *fakeLLM) Provider() string { return "fake" }

func (f *fakeLLM) Complete(_ context.Context, messages []prompt.Message) (*llm.Completion, error) {
	f.got = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Content: f.content, Model: "fake-1"}, nil
}

func newService(client llm.Client) *copilot.Service {
	return &copilot.Service{
		Catalogs: &fakeLoader{
			org: catalog.OrgInfo{Name: "Shop", Description: "An online shop"},
			pages: []catalog.Page{
				{Name: "Search", Description: "Find products", Actions: []catalog.Action{{Name: "search", Description: "Search items"}}},
				{Name: "Cart", Description: "Your cart"},
			},
		},
		LLM:             client,
		Assembler:       prompt.Assembler{Now: func() time.Time { return time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC) }},
		DefaultLanguage: "English",
	}
}

func TestBuildPrompt(t *testing.T) {
	svc := newService(nil)
	history := []prompt.Message{{Role: prompt.RoleUser, Content: "hi"}}

	msgs, err := svc.BuildPrompt(context.Background(), copilot.Request{
		OrgID:   "org-1",
		Page:    "Search",
		History: history,
		Message: "find socks",
	})
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("len(msgs) = %d, want 3", len(msgs))
	}
	system := msgs[0].Content
	for _, want := range []string{"You are Shop chatbot AI. An online shop", "The date today is 2024-03-06.", "following language: English.", "2. search: Search items.\n"} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if msgs[2].Role != prompt.RoleUser || msgs[2].Content != "find socks" {
		t.Errorf("last message = %+v", msgs[2])
	}
	if len(history) != 1 {
		t.Errorf("caller history was modified: %+v", history)
	}
}

func TestBuildPrompt_LanguageOverride(t *testing.T) {
	msgs, err := newService(nil).BuildPrompt(context.Background(), copilot.Request{OrgID: "org-1", Page: "Cart", Language: "French"})
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if !strings.Contains(msgs[0].Content, "French") || strings.Contains(msgs[0].Content, "English") {
		t.Error("language override not applied")
	}
}

func TestBuildPrompt_Errors(t *testing.T) {
	svc := newService(nil)

	_, err := svc.BuildPrompt(context.Background(), copilot.Request{OrgID: "org-1", Page: "Checkout"})
	if !errors.Is(err, prompt.ErrPageNotFound) {
		t.Errorf("unknown page error = %v, want ErrPageNotFound", err)
	}
	_, err = svc.BuildPrompt(context.Background(), copilot.Request{OrgID: "org-2", Page: "Search"})
	if !errors.Is(err, errNoOrg) {
		t.Errorf("unknown org error = %v, want loader error", err)
	}
}

func TestChat_Disabled(t *testing.T) {
	svc := newService(nil)
	if svc.ChatEnabled() {
		t.Error("ChatEnabled with no client")
	}
	if _, err := svc.Chat(context.Background(), copilot.Request{OrgID: "org-1", Page: "Search"}); !errors.Is(err, copilot.ErrChatDisabled) {
		t.Errorf("Chat error = %v, want ErrChatDisabled", err)
	}
}

func TestChat_ParsesReply(t *testing.T) {
	model := &fakeLLM{content: "Reasoning: go to cart\nCommands:\nnavigateTo(pageName=Cart)\nCompleted: false"}
	svc := newService(model)

	res, err := svc.Chat(context.Background(), copilot.Request{OrgID: "org-1", Page: "Search", Message: "show my cart"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if res.ParseError != "" {
		t.Fatalf("ParseError = %s", res.ParseError)
	}
	if res.Reply.Completed != reply.CompletedFalse {
		t.Errorf("Completed = %q", res.Reply.Completed)
	}
	if len(res.Reply.Commands) != 1 || res.Reply.Commands[0].Name != "navigateTo" {
		t.Errorf("Commands = %+v", res.Reply.Commands)
	}
	if len(model.got) != 2 || model.got[0].Role != prompt.RoleSystem {
		t.Errorf("model received %+v", model.got)
	}
	if res.Completion.Model != "fake-1" {
		t.Errorf("Completion = %+v", res.Completion)
	}
}

func TestChat_UnparseableReplyIsNotFatal(t *testing.T) {
	svc := newService(&fakeLLM{content: "Sure, I can help with that!"})

	res, err := svc.Chat(context.Background(), copilot.Request{OrgID: "org-1", Page: "Search", Message: "hello"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if res.Reply != nil {
		t.Errorf("Reply = %+v, want nil", res.Reply)
	}
	if !strings.Contains(res.ParseError, "Completed") {
		t.Errorf("ParseError = %q", res.ParseError)
	}
	if res.Completion.Content != "Sure, I can help with that!" {
		t.Errorf("raw reply lost: %+v", res.Completion)
	}
}

func TestChat_ModelError(t *testing.T) {
	boom := errors.New("upstream 500")
	svc := newService(&fakeLLM{err: boom})

	_, err := svc.Chat(context.Background(), copilot.Request{OrgID: "org-1", Page: "Search", Message: "hello"})
	if !errors.Is(err, boom) || !errors.Is(err, copilot.ErrCompletion) {
		t.Errorf("Chat error = %v, want wrapped model error", err)
	}
}
