// Package httpapi exposes the chatbot over HTTP with chi routing.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/findyourwave/surfcoach/internal/domain"
	healthuc "github.com/findyourwave/surfcoach/internal/usecase/health"
)

// Error codes returned to clients.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeTimeout          = "pipeline_timeout"
	codeEmbeddingFailed  = "embedding_failed"
	codeRetrievalFailed  = "retrieval_failed"
	codeGenerationFailed = "generation_failed"
	codeInternalError    = "internal_error"
)

// ChatRequest is the POST /chatbot body.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse carries the grounded reply. GroundedOn lists the forecast
// document ids the answer was conditioned on; empty for an
// insufficient-data reply.
type ChatResponse struct {
	Reply      string   `json:"reply"`
	GroundedOn []string `json:"grounded_on,omitempty"`
	SessionID  string   `json:"session_id,omitempty"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a pipeline error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes chatbot requests into the pipeline.
type Server struct {
	pipeline      Orchestrator
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(pipeline Orchestrator, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		pipeline: pipeline,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		timeoutHandler,
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbedding, http.StatusBadGateway, codeEmbeddingFailed),
		sentinelHandler(domain.ErrRetrieval, http.StatusBadGateway, codeRetrievalFailed),
		sentinelHandler(domain.ErrGeneration, http.StatusBadGateway, codeGenerationFailed),
	}
	return s
}

// RegisterRoutes mounts the API on the given router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/chatbot", s.Chat)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Chat handles POST /chatbot.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	// Validation happens inside the pipeline so the rejection is tagged
	// and counted like any other stage failure.
	query := domain.Query{Text: req.Message, SessionID: req.SessionID}

	answer, err := s.pipeline.Answer(r.Context(), query)
	if err != nil {
		s.handlePipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Reply:      answer.Text,
		GroundedOn: answer.GroundedOn,
		SessionID:  req.SessionID,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safePipelineMessage returns a sentinel error message for the client without
// exposing provider internals.
func safePipelineMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrEmbedding,
		domain.ErrRetrieval,
		domain.ErrGeneration,
		domain.ErrDimensionMismatch,
		domain.ErrMalformedResponse,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// timeoutHandler maps a deadline hit anywhere in the chain to 504. It runs
// before the sentinel handlers because a timed-out stage also carries its
// stage sentinel.
func timeoutHandler(w http.ResponseWriter, err error, _ string) bool {
	var pe *domain.PipelineError
	timedOut := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &pe) && pe.Cause == domain.CauseTimeout)
	if !timedOut {
		return false
	}
	writeError(w, http.StatusGatewayTimeout, codeTimeout, "pipeline deadline exceeded")
	return true
}

func (s *Server) handlePipelineError(w http.ResponseWriter, err error) {
	s.logger.Warn("pipeline error", zap.Error(err))
	msg := safePipelineMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
