package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/findyourwave/surfcoach/internal/domain"
)

// Generator produces the final answer text via an OpenAI-compatible
// chat-completions endpoint. One network call per request, no local fallback
// text: a failed completion is a failed request.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// GeneratorConfig holds the generative model settings.
type GeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Logger      *zap.Logger
}

// NewGenerator creates a chat-completion client.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      cfg.Logger,
	}
}

// Generate builds the persona prompt from the context block and query, and
// asks the model for an answer. An empty context block switches to the
// insufficient-information instruction branch; the model still answers, it
// just may not invent forecast numbers.
func (g *Generator) Generate(ctx context.Context, query domain.Query, block domain.ContextBlock) (domain.Answer, error) {
	system, user := buildMessages(query, block)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrGeneration, parseAPIError("completion", err))
	}

	if len(resp.Choices) == 0 {
		return domain.Answer{}, fmt.Errorf("%w: %w: no completion choices", domain.ErrGeneration, domain.ErrMalformedResponse)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return domain.Answer{}, fmt.Errorf("%w: %w: empty completion", domain.ErrGeneration, domain.ErrMalformedResponse)
	}

	return domain.Answer{Text: text, GroundedOn: block.SourceIDs}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
