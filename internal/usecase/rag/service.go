// Package rag sequences the embed, retrieve, assemble, and generate stages
// for one request.
package rag

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/findyourwave/surfcoach/internal/domain"
	"github.com/findyourwave/surfcoach/internal/logger"
	"github.com/findyourwave/surfcoach/internal/metrics"
)

// state tracks where a request is in its lifecycle.
type state string

const (
	stateReceived   state = "received"
	stateEmbedding  state = "embedding"
	stateRetrieving state = "retrieving"
	stateAssembling state = "assembling"
	stateGenerating state = "generating"
	stateCompleted  state = "completed"
	stateFailed     state = "failed"
)

// Timeouts bound each network stage and the request as a whole.
// A zero value disables the corresponding bound.
type Timeouts struct {
	Embed    time.Duration
	Retrieve time.Duration
	Generate time.Duration
	Overall  time.Duration
}

// Service is the pipeline orchestrator: the single entry point the HTTP
// layer calls. Requests are independent; the only shared state is the
// injected clients, which are safe for concurrent use.
type Service struct {
	embed    Embedder
	retrieve Retriever
	assemble Assembler
	generate Generator
	topK     int
	timeouts Timeouts
}

// New creates the orchestrator.
func New(e Embedder, r Retriever, a Assembler, g Generator, topK int, timeouts Timeouts) *Service {
	return &Service{
		embed:    e,
		retrieve: r,
		assemble: a,
		generate: g,
		topK:     topK,
		timeouts: timeouts,
	}
}

// Answer runs one query through the full pipeline. Embedding, retrieval, and
// generation failures propagate as PipelineError — no degraded answer is
// fabricated when a required stage did not complete. A retrieval that
// succeeds with zero matches is not a failure: it flows through assembly as
// an empty context and yields an honest insufficient-data answer.
func (s *Service) Answer(ctx context.Context, query domain.Query) (domain.Answer, error) {
	log := logger.FromContext(ctx)
	started := time.Now()

	if s.timeouts.Overall > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeouts.Overall)
		defer cancel()
	}

	st := stateReceived
	fail := func(stage domain.Stage, err error) (domain.Answer, error) {
		pe := domain.NewPipelineError(stage, err)
		metrics.PipelineStageErrorsTotal.WithLabelValues(string(stage), string(pe.Cause)).Inc()
		metrics.PipelineRequestsTotal.WithLabelValues("failed").Inc()
		log.Warn("pipeline failed",
			zap.String("state", string(st)),
			zap.String("stage", string(stage)),
			zap.String("cause", string(pe.Cause)),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		st = stateFailed
		return domain.Answer{}, pe
	}

	if strings.TrimSpace(query.Text) == "" {
		return fail(domain.StageValidate, domain.ErrEmptyQuery)
	}

	st = stateEmbedding
	vector, err := runStage(ctx, domain.StageEmbed, s.timeouts.Embed,
		func(ctx context.Context) (domain.Vector, error) {
			return s.embed.Embed(ctx, query.Text)
		})
	if err != nil {
		return fail(domain.StageEmbed, err)
	}

	st = stateRetrieving
	result, err := runStage(ctx, domain.StageRetrieve, s.timeouts.Retrieve,
		func(ctx context.Context) (domain.RetrievalResult, error) {
			return s.retrieve.Retrieve(ctx, vector, s.topK)
		})
	if err != nil {
		return fail(domain.StageRetrieve, err)
	}

	st = stateAssembling
	block := s.assemble.Assemble(result)
	log.Debug("context assembled",
		zap.Int("retrieved", len(result)),
		zap.Int("included", len(block.SourceIDs)),
		zap.Int("context_bytes", len(block.Text)),
	)

	st = stateGenerating
	answer, err := runStage(ctx, domain.StageGenerate, s.timeouts.Generate,
		func(ctx context.Context) (domain.Answer, error) {
			return s.generate.Generate(ctx, query, block)
		})
	if err != nil {
		return fail(domain.StageGenerate, err)
	}

	st = stateCompleted
	metrics.PipelineRequestsTotal.WithLabelValues("completed").Inc()
	log.Info("pipeline completed",
		zap.String("state", string(st)),
		zap.Int("grounded_on", len(answer.GroundedOn)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return answer, nil
}

// runStage executes one stage under its timeout and records its duration.
func runStage[T any](
	ctx context.Context, stage domain.Stage, timeout time.Duration,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := fn(ctx)
	metrics.PipelineStageDuration.WithLabelValues(string(stage)).Observe(time.Since(start).Seconds())
	return out, err
}
