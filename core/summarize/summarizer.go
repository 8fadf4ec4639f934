// Package summarize implements the Summarizer interface on top of an
// OpenAI-compatible chat completions API (Groq by default).
// One request per call; no retries, no post-processing of the reply.
package summarize

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/gaurav-prasanna/langsearch/core"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama3-8b-8192"
	DefaultTimeout = 60 * time.Second

	promptPrefix = "Summarize the following content:\n\n"
)

// Config configures the chat completions client.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// ChatSummarizer sends the aggregate text to a hosted model.
type ChatSummarizer struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// New creates a ChatSummarizer. The client is built here and owned by the
// summarizer; nothing is shared through package state.
func New(cfg Config, logger zerolog.Logger) *ChatSummarizer {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = baseURL
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &ChatSummarizer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger,
	}
}

// Prompt builds the single user message sent for text.
func Prompt(text string) string {
	return promptPrefix + text
}

// Summarize returns the first choice's content verbatim.
func (s *ChatSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: Prompt(text)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion (model %s): %w", core.ErrSummarization, s.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: model %s returned no choices", core.ErrSummarization, s.model)
	}

	s.logger.Debug().
		Str("model", s.model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("summary generated")
	return resp.Choices[0].Message.Content, nil
}
