package surfcoach

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for API failures. Use errors.Is() to check.
var (
	// ErrInvalidQuery signals a rejected request (empty message, bad body).
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnauthorized signals a missing or invalid API key.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTimeout signals that the pipeline deadline was exceeded.
	ErrTimeout = errors.New("pipeline timeout")
	// ErrUpstream signals a failed embedding, retrieval, or generation provider.
	ErrUpstream = errors.New("upstream provider failed")
)

// APIError carries the structured error body returned by the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	sentinel   error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("surfcoach: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.sentinel }

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		apiErr.sentinel = ErrInvalidQuery
	case http.StatusUnauthorized:
		apiErr.sentinel = ErrUnauthorized
	case http.StatusGatewayTimeout:
		apiErr.sentinel = ErrTimeout
	case http.StatusBadGateway:
		apiErr.sentinel = ErrUpstream
	}

	return apiErr
}
