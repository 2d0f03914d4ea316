package forecast

import (
	"context"
	"testing"

	"github.com/findyourwave/surfcoach/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	lastQuery   *db.KNNQuery
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastQuery = q
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T, cfg Config) (*Repo, *mockStore) {
	t.Helper()
	if cfg.IndexName == "" {
		cfg.IndexName = "idx:forecasts"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "forecast:"
	}
	ms := &mockStore{}
	return New(ms, cfg), ms
}

func testVector() []float32 {
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.1
	}
	return vec
}

func entry(id string, score float64, content string) db.SearchEntry {
	return db.SearchEntry{
		Key:   "forecast:" + id,
		Score: score,
		Fields: map[string]string{
			"__content": content,
		},
	}
}
