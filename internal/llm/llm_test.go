package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joestump/joe-copilot/internal/config"
	"github.com/joestump/joe-copilot/internal/llm"
	"github.com/joestump/joe-copilot/internal/prompt"
)

var conversation = []prompt.Message{
	{Role: prompt.RoleSystem, Content: "You are a copilot."},
	{Role: prompt.RoleUser, Content: "Find red socks"},
	{Role: prompt.RoleAssistant, Content: "Which size?"},
	{Role: prompt.RoleUser, Content: "M"},
}

func testConfig(provider, baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.LLM.Provider = provider
	cfg.LLM.APIKey = "sk-test"
	cfg.LLM.BaseURL = baseURL
	cfg.LLM.MaxTokens = 512
	cfg.LLM.Timeout = 5 * time.Second
	return cfg
}

func TestNew_Providers(t *testing.T) {
	tests := []struct {
		provider string
		want     string
		wantNil  bool
		wantErr  bool
	}{
		{provider: "", wantNil: true},
		{provider: "openai", want: "openai"},
		{provider: "openai-compatible", want: "openai-compatible"},
		{provider: "anthropic", want: "anthropic"},
		{provider: "palm", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			c, err := llm.New(testConfig(tt.provider, ""))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unknown provider")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if tt.wantNil {
				if c != nil {
					t.Errorf("expected nil client, got %T", c)
				}
				return
			}
			if c.Provider() != tt.want {
				t.Errorf("Provider = %q, want %q", c.Provider(), tt.want)
			}
		})
	}
}

func TestOpenAI_Complete(t *testing.T) {
	var got struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Completed: true"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 42, "completion_tokens": 3, "total_tokens": 45}
		}`))
	}))
	defer srv.Close()

	c, err := llm.New(testConfig("openai", srv.URL+"/v1/"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := c.Complete(context.Background(), conversation)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if out.Content != "Completed: true" {
		t.Errorf("Content = %q", out.Content)
	}
	if out.InputTokens != 42 || out.OutputTokens != 3 {
		t.Errorf("tokens = %d/%d", out.InputTokens, out.OutputTokens)
	}
	if got.Model != "gpt-4o-mini" || got.MaxTokens != 512 {
		t.Errorf("request model/max_tokens = %q/%d", got.Model, got.MaxTokens)
	}
	roles := make([]string, len(got.Messages))
	for i, m := range got.Messages {
		roles[i] = m.Role
	}
	if strings.Join(roles, ",") != "system,user,assistant,user" {
		t.Errorf("roles = %v", roles)
	}
}

func TestOpenAI_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	c, err := llm.New(testConfig("openai-compatible", srv.URL+"/v1"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Complete(context.Background(), conversation)
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("Complete error = %v, want 401", err)
	}
}

func TestAnthropic_Complete(t *testing.T) {
	var got struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		System    []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if key := r.Header.Get("X-Api-Key"); key != "sk-test" {
			t.Errorf("x-api-key = %q", key)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "Reasoning: ok\n"}, {"type": "text", "text": "Completed: question"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 100, "output_tokens": 7}
		}`))
	}))
	defer srv.Close()

	c, err := llm.New(testConfig("anthropic", srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := c.Complete(context.Background(), conversation)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if out.Content != "Reasoning: ok\nCompleted: question" {
		t.Errorf("Content = %q", out.Content)
	}
	if out.InputTokens != 100 || out.OutputTokens != 7 {
		t.Errorf("tokens = %d/%d", out.InputTokens, out.OutputTokens)
	}
	if len(got.System) != 1 || got.System[0].Text != "You are a copilot." {
		t.Errorf("system = %+v", got.System)
	}
	if len(got.Messages) != 3 || got.Messages[0].Role != "user" || got.Messages[1].Role != "assistant" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if got.MaxTokens != 512 || got.Model != "claude-haiku-4-5" {
		t.Errorf("request model/max_tokens = %q/%d", got.Model, got.MaxTokens)
	}
}

func TestAnthropic_SystemOnly(t *testing.T) {
	c, err := llm.New(testConfig("anthropic", "http://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Complete(context.Background(), conversation[:1]); err == nil {
		t.Error("expected error for a conversation without user turns")
	}
}
