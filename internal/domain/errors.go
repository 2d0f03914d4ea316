package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery signals a query that is empty after trimming.
	// Rejected before any network call.
	ErrEmptyQuery = errors.New("empty query")
	// ErrEmbedding signals a failed embedding call.
	ErrEmbedding = errors.New("embedding failed")
	// ErrRetrieval signals an unavailable or misbehaving vector index.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrGeneration signals a failed or empty model completion.
	ErrGeneration = errors.New("generation failed")
	// ErrDimensionMismatch signals a vector whose dimension differs from the
	// configured one.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrMalformedResponse signals an external response with an unusable shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// Stage identifies a pipeline stage for error tagging and metrics.
type Stage string

// Pipeline stages in execution order.
const (
	StageValidate Stage = "validate"
	StageEmbed    Stage = "embed"
	StageRetrieve Stage = "retrieve"
	StageAssemble Stage = "assemble"
	StageGenerate Stage = "generate"
)

// Cause classifies what went wrong inside a stage.
type Cause string

// Failure causes.
const (
	CauseValidation        Cause = "validation"
	CauseNetwork           Cause = "network"
	CauseMalformedResponse Cause = "malformed_response"
	CauseDimensionMismatch Cause = "dimension_mismatch"
	CauseTimeout           Cause = "timeout"
)

// PipelineError wraps a stage failure with the stage and cause tags.
type PipelineError struct {
	Stage Stage
	Cause Cause
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %s (%s): %v", e.Stage, e.Cause, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewPipelineError tags err with its stage and a cause classified from the
// error chain. Timeout takes precedence over the stage-specific causes.
func NewPipelineError(stage Stage, err error) *PipelineError {
	return &PipelineError{Stage: stage, Cause: ClassifyCause(err), Err: err}
}

// ClassifyCause derives the failure cause from an error chain.
func ClassifyCause(err error) Cause {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return CauseTimeout
	case errors.Is(err, ErrEmptyQuery):
		return CauseValidation
	case errors.Is(err, ErrDimensionMismatch):
		return CauseDimensionMismatch
	case errors.Is(err, ErrMalformedResponse):
		return CauseMalformedResponse
	default:
		return CauseNetwork
	}
}
