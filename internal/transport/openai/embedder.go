// Package openai wraps the OpenAI-compatible embedding and chat-completion APIs.
package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/findyourwave/surfcoach/internal/domain"
)

// Embedder turns query text into a fixed-dimension vector via an
// OpenAI-compatible embeddings endpoint. It performs no caching and no
// retries; the orchestrator owns that policy.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	logger     *zap.Logger
}

// EmbedderConfig holds the embedding provider settings.
type EmbedderConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Logger     *zap.Logger
}

// NewEmbedder creates an embedding client.
func NewEmbedder(cfg *EmbedderConfig) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		logger:     cfg.Logger,
	}
}

// Embed converts text into an embedding vector. The returned vector always
// has the configured dimension; a provider returning any other dimension is
// reported as a dimension mismatch, never passed downstream.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.Vector, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyQuery
	}

	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}

	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, parseAPIError("embedding", err))
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: %w: empty embedding response", domain.ErrEmbedding, domain.ErrMalformedResponse)
	}

	vec := resp.Data[0].Embedding
	if e.dimensions > 0 && len(vec) != e.dimensions {
		return nil, fmt.Errorf("%w: %w: expected %d dimensions, got %d",
			domain.ErrEmbedding, domain.ErrDimensionMismatch, e.dimensions, len(vec))
	}

	return vec, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
