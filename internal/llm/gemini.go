package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
)

// Gemini is a Completer backed by Google's Gemini models.
type Gemini struct {
	keys     KeySource
	defaults Defaults
	logger   *zap.Logger
	opts     []option.ClientOption
}

func NewGemini(keys KeySource, defaults Defaults, logger *zap.Logger, opts ...option.ClientOption) *Gemini {
	return &Gemini{keys: keys, defaults: defaults, logger: logger, opts: opts}
}

func (g *Gemini) Complete(ctx context.Context, messages []Message, opts Options) (*Completion, error) {
	key, err := g.keys.GeminiKey(ctx)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(key)}, g.opts...)...)
	if err != nil {
		return nil, apperr.NewNetwork(fmt.Errorf("failed to create Gemini client: %w", err))
	}
	defer client.Close()

	name, temp, maxTokens := g.defaults.resolve(opts)
	model := client.GenerativeModel(name)
	model.SetTemperature(temp)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"

	system, history, last := splitConversation(messages)
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
	if last == "" {
		return nil, apperr.NewValidation("conversation has no user message")
	}

	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return nil, g.classify(ctx, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, apperr.NewGeneration("no content generated")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	out := &Completion{
		Content:      text.String(),
		Model:        name,
		FinishReason: resp.Candidates[0].FinishReason.String(),
		Raw:          resp,
	}
	if resp.UsageMetadata != nil {
		out.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

// splitConversation folds system messages into one instruction, turns every
// message before the final user message into chat history and returns that
// final user message separately.
func splitConversation(messages []Message) (string, []*genai.Content, string) {
	var system []string
	lastUser := -1
	for i, m := range messages {
		if m.Role == RoleUser {
			lastUser = i
		}
	}

	var history []*genai.Content
	for i, m := range messages {
		switch {
		case m.Role == RoleSystem:
			system = append(system, m.Content)
		case i == lastUser:
		case m.Role == RoleAssistant:
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(m.Content)}})
		default:
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(m.Content)}})
		}
	}

	last := ""
	if lastUser >= 0 {
		last = messages[lastUser].Content
	}
	return strings.Join(system, "\n\n"), history, last
}

func (g *Gemini) classify(ctx context.Context, err error) error {
	if cerr := cancellation(ctx, err); cerr != nil {
		return cerr
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &apperr.Error{Kind: apperr.Generation, Message: "response blocked", Err: err}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		g.logger.Warn("Gemini returned an error",
			zap.Int("status", gErr.Code),
			zap.String("message", gErr.Message))
		return apperr.NewUpstream(gErr.Code, gErr.Message)
	}
	return apperr.NewNetwork(err)
}
