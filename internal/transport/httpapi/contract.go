package httpapi

import (
	"context"

	"github.com/findyourwave/surfcoach/internal/domain"
)

// Orchestrator answers one user query through the full pipeline.
type Orchestrator interface {
	Answer(ctx context.Context, query domain.Query) (domain.Answer, error)
}
