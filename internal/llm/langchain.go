package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/applyforge/applyforge-backend/internal/config"
)

// modelBackend adapts a langchaingo model to the Backend interface. All
// three providers go through the same code path; only client
// construction differs.
type modelBackend struct {
	name  string
	model llms.Model
}

// NewGeminiBackend builds the Google Gemini backend. A missing API key
// yields an unavailable backend, not an error: availability is probed
// at call time, per the failover design.
func NewGeminiBackend(ctx context.Context, cfg config.BackendConfig) (Backend, error) {
	if cfg.APIKey == "" {
		return &modelBackend{name: BackendGemini}, nil
	}
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &modelBackend{name: BackendGemini, model: model}, nil
}

// NewOpenAIBackend builds the OpenAI backend.
func NewOpenAIBackend(cfg config.BackendConfig) (Backend, error) {
	if cfg.APIKey == "" {
		return &modelBackend{name: BackendOpenAI}, nil
	}
	model, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}
	return &modelBackend{name: BackendOpenAI, model: model}, nil
}

// NewAnthropicBackend builds the Anthropic backend.
func NewAnthropicBackend(cfg config.BackendConfig) (Backend, error) {
	if cfg.APIKey == "" {
		return &modelBackend{name: BackendAnthropic}, nil
	}
	model, err := anthropic.New(
		anthropic.WithToken(cfg.APIKey),
		anthropic.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating anthropic client: %w", err)
	}
	return &modelBackend{name: BackendAnthropic, model: model}, nil
}

func (b *modelBackend) Name() string { return b.name }

func (b *modelBackend) Available() bool { return b.model != nil }

func (b *modelBackend) Generate(ctx context.Context, prompt string, opts Options) (Result, error) {
	if b.model == nil {
		return Result{}, fmt.Errorf("backend %s has no credential configured", b.name)
	}
	resp, err := b.model.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithTemperature(opts.Temperature),
		llms.WithMaxTokens(opts.MaxTokens),
	)
	if err != nil {
		return Result{}, fmt.Errorf("backend %s: %w", b.name, err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("backend %s returned no choices", b.name)
	}
	choice := resp.Choices[0]
	return Result{
		Text:             choice.Content,
		Backend:          b.name,
		PromptTokens:     tokenCount(choice.GenerationInfo, "PromptTokens", "input_tokens"),
		CompletionTokens: tokenCount(choice.GenerationInfo, "CompletionTokens", "output_tokens"),
	}, nil
}

// tokenCount digs usage counters out of GenerationInfo. Providers
// disagree on key names and numeric types, so this is best effort.
func tokenCount(info map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := info[key].(type) {
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}
