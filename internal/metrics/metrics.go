// Package metrics holds the Prometheus collectors served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PromptsAssembledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joecopilot_prompts_assembled_total",
		Help: "Prompt assembly attempts by outcome.",
	}, []string{"status"})

	PromptCommands = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "joecopilot_prompt_commands",
		Help:    "Number of commands listed in an assembled prompt.",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})

	ChatCompletionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joecopilot_chat_completions_total",
		Help: "Chat completion requests by provider and outcome.",
	}, []string{"provider", "status"})

	ChatCompletionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "joecopilot_chat_completion_duration_seconds",
		Help:    "Time spent waiting for the chat model.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
	})

	ReplyParseErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "joecopilot_reply_parse_errors_total",
		Help: "Model replies that did not follow the response format.",
	})
)
