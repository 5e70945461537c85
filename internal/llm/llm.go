// Package llm sends chat prompts to a completion provider.
package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/config"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func System(content string) Message { return Message{Role: RoleSystem, Content: content} }
func User(content string) Message   { return Message{Role: RoleUser, Content: content} }

// Options override the client defaults for one call. Zero values keep the
// defaults.
type Options struct {
	Model       string
	Temperature *float32
	MaxTokens   int
}

// Completion is the provider's answer. Raw holds the provider response.
type Completion struct {
	Content          string
	Model            string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
	Raw              any `json:"-"`
}

// Completer sends an ordered list of messages and returns the completion.
// Cancellation and timeouts come from ctx. Implementations do not retry.
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts Options) (*Completion, error)
}

// KeySource is where clients read their credentials from on every call.
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
	GeminiKey(ctx context.Context) (string, error)
}

// Defaults are the model parameters used when Options leave them unset.
type Defaults struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

func (d Defaults) resolve(opts Options) (string, float32, int) {
	model, temp, max := d.Model, d.Temperature, d.MaxTokens
	if opts.Model != "" {
		model = opts.Model
	}
	if opts.Temperature != nil {
		temp = *opts.Temperature
	}
	if opts.MaxTokens > 0 {
		max = opts.MaxTokens
	}
	return model, temp, max
}

// New builds the Completer selected by cfg.Provider.
func New(cfg config.LLMConfig, keys KeySource, logger *zap.Logger) (Completer, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAI(keys, cfg.OpenAIURL, Defaults{
			Model:       cfg.OpenAIModel,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}, logger), nil
	case "gemini":
		return NewGemini(keys, Defaults{
			Model:       cfg.GeminiModel,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

// cancellation maps a context failure to a Cancelled error, or returns nil.
func cancellation(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperr.NewCancelled("request timed out", context.DeadlineExceeded)
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return apperr.NewCancelled("request cancelled", context.Canceled)
	}
	return nil
}
