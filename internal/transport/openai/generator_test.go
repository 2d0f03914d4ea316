package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/findyourwave/surfcoach/internal/domain"
)

// chatRequest captures the fields of the chat-completions request we assert on.
type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

func chatServer(t *testing.T, reply string, captured *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": reply},
					"finish_reason": "stop",
				},
			},
		})
	}))
}

func testQuery(t *testing.T) domain.Query {
	t.Helper()
	q, err := domain.NewQuery("내일 모레 죽도 해수욕장 파도 어때?", "")
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	return q
}

func TestGenerator_Generate(t *testing.T) {
	var captured chatRequest
	server := chatServer(t, "  내일 죽도는 파고 1.2m, 주기 9초라 입문자에게 좋아요!  ", &captured)
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Model:       "test-model",
		Temperature: 0.7,
		MaxTokens:   512,
		Logger:      zap.NewNop(),
	})

	block := domain.ContextBlock{
		Text:      "[출처 1: jukdo-0612] 죽도 파고 1.2m 주기 9초 온쇼어",
		SourceIDs: []string{"jukdo-0612"},
	}

	answer, err := gen.Generate(context.Background(), testQuery(t), block)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if answer.Text != "내일 죽도는 파고 1.2m, 주기 9초라 입문자에게 좋아요!" {
		t.Errorf("answer not trimmed: %q", answer.Text)
	}
	if len(answer.GroundedOn) != 1 || answer.GroundedOn[0] != "jukdo-0612" {
		t.Errorf("grounded_on = %v", answer.GroundedOn)
	}

	if captured.Model != "test-model" {
		t.Errorf("model = %q", captured.Model)
	}
	if captured.Temperature != 0.7 || captured.MaxTokens != 512 {
		t.Errorf("params = temp %g, max %d", captured.Temperature, captured.MaxTokens)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(captured.Messages))
	}
	if !strings.Contains(captured.Messages[1].Content, block.Text) {
		t.Error("user message should embed the context block")
	}
	if !strings.Contains(captured.Messages[1].Content, "죽도 해수욕장 파도 어때?") {
		t.Error("user message should embed the original query")
	}
}

func TestGenerator_EmptyContextSwitchesInstruction(t *testing.T) {
	var captured chatRequest
	server := chatServer(t, "해변 이름과 날짜를 알려주시면 예보를 찾아볼게요.", &captured)
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	answer, err := gen.Generate(context.Background(), testQuery(t), domain.ContextBlock{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if answer.Text == "" {
		t.Fatal("expected a non-empty degraded answer")
	}
	if len(answer.GroundedOn) != 0 {
		t.Errorf("degraded answer should ground on nothing, got %v", answer.GroundedOn)
	}
	if strings.Contains(captured.Messages[0].Content, "컨텍스트 문서에는") {
		t.Error("empty context must not use the grounded persona instruction")
	}
	if !strings.Contains(captured.Messages[0].Content, "지어내지 말고") {
		t.Error("empty context must use the insufficient-information instruction")
	}
}

func TestGenerator_EmptyCompletion(t *testing.T) {
	server := chatServer(t, "   ", nil)
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	_, err := gen.Generate(context.Background(), testQuery(t), domain.ContextBlock{})
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestGenerator_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "upstream unavailable"},
		})
	}))
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	_, err := gen.Generate(context.Background(), testQuery(t), domain.ContextBlock{})
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}
