package llm

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
)

// OpenAI is a Completer backed by the OpenAI chat-completion API.
type OpenAI struct {
	keys       KeySource
	baseURL    string
	defaults   Defaults
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOpenAI returns a client. An empty baseURL uses the public API.
func NewOpenAI(keys KeySource, baseURL string, defaults Defaults, logger *zap.Logger) *OpenAI {
	return &OpenAI{
		keys:       keys,
		baseURL:    baseURL,
		defaults:   defaults,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (c *OpenAI) client(key string) *openai.Client {
	cfg := openai.DefaultConfig(key)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cfg.HTTPClient = c.httpClient
	return openai.NewClientWithConfig(cfg)
}

func (c *OpenAI) Complete(ctx context.Context, messages []Message, opts Options) (*Completion, error) {
	key, err := c.keys.APIKey(ctx)
	if err != nil {
		return nil, err
	}

	model, temp, maxTokens := c.defaults.resolve(opts)

	request := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: temp,
		MaxTokens:   maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	for _, m := range messages {
		request.Messages = append(request.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	c.logger.Debug("Sending chat completion",
		zap.String("model", model),
		zap.Int("messages", len(messages)))

	response, err := c.client(key).CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, c.classify(ctx, err)
	}
	if len(response.Choices) == 0 {
		return nil, apperr.NewGeneration("no choices in completion")
	}

	choice := response.Choices[0]
	return &Completion{
		Content:          choice.Message.Content,
		Model:            response.Model,
		FinishReason:     string(choice.FinishReason),
		PromptTokens:     response.Usage.PromptTokens,
		CompletionTokens: response.Usage.CompletionTokens,
		Raw:              response,
	}, nil
}

// ValidateKey lists models with the candidate key; any failure means the key
// is not usable.
func (c *OpenAI) ValidateKey(ctx context.Context, key string) error {
	if _, err := c.client(key).ListModels(ctx); err != nil {
		return c.classify(ctx, err)
	}
	return nil
}

func (c *OpenAI) classify(ctx context.Context, err error) error {
	if cerr := cancellation(ctx, err); cerr != nil {
		return cerr
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		c.logger.Warn("OpenAI returned an error",
			zap.Int("status", apiErr.HTTPStatusCode),
			zap.String("message", apiErr.Message))
		return apperr.NewUpstream(apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return apperr.NewUpstream(reqErr.HTTPStatusCode, body)
	}

	return apperr.NewNetwork(err)
}
