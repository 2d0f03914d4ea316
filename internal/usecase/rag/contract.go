package rag

import (
	"context"

	"github.com/findyourwave/surfcoach/internal/domain"
)

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.Vector, error)
}

// Retriever returns the documents most similar to a query vector.
type Retriever interface {
	Retrieve(ctx context.Context, vector domain.Vector, topK int) (domain.RetrievalResult, error)
}

// Assembler formats retrieved documents into a bounded context block.
type Assembler interface {
	Assemble(result domain.RetrievalResult) domain.ContextBlock
}

// Generator produces the final grounded answer.
type Generator interface {
	Generate(ctx context.Context, query domain.Query, block domain.ContextBlock) (domain.Answer, error)
}
