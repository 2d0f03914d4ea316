package surfcoach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 60 * time.Second

// Client is the surfcoach SDK entry point. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the Client.
type Option interface {
	apply(*Client)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *Client) {
		c.apiKey = key
	})
}

// WithHTTPClient replaces the default HTTP client (60s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) {
		c.httpClient = hc
	})
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

// ChatResult is a grounded chatbot reply. GroundedOn lists the forecast
// document ids the reply was conditioned on; empty when the index had no
// relevant data.
type ChatResult struct {
	Reply      string   `json:"reply"`
	GroundedOn []string `json:"grounded_on,omitempty"`
	SessionID  string   `json:"session_id,omitempty"`
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// Chat asks the surf coach one question.
func (c *Client) Chat(ctx context.Context, message string) (ChatResult, error) {
	return c.ChatSession(ctx, message, "")
}

// ChatSession asks a question within a conversation session. The session id
// is opaque to the server and echoed back in the result.
func (c *Client) ChatSession(ctx context.Context, message, sessionID string) (ChatResult, error) {
	body, err := json.Marshal(chatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return ChatResult{}, fmt.Errorf("surfcoach: marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/chatbot", bytes.NewReader(body))
	if err != nil {
		return ChatResult{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ChatResult{}, parseAPIError(resp)
	}

	var out ChatResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ChatResult{}, fmt.Errorf("surfcoach: decode response: %w", err)
	}
	return out, nil
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component -> "ok"/"error"
}

// Health checks the health of all server components. A degraded report is
// returned as a value, not an error; only transport failures error.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return HealthStatus{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var out HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return HealthStatus{}, fmt.Errorf("surfcoach: decode response: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("surfcoach: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("surfcoach: %s %s: %w", method, path, err)
	}
	return resp, nil
}
