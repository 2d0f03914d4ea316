// Package forecast reads forecast documents from the vector index.
package forecast

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/findyourwave/surfcoach/internal/db"
	"github.com/findyourwave/surfcoach/internal/domain"
	"github.com/findyourwave/surfcoach/internal/metrics"
)

// store is the consumer interface for retrieval operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Config holds index naming and post-filter settings.
type Config struct {
	IndexName     string
	KeyPrefix     string
	MinSimilarity float64 // 0 disables the post-filter
}

// Repo implements the retriever contract over a Redis/Valkey FT index.
// It trusts the ordering the index returns and never recomputes similarity;
// it only deduplicates, applies the optional similarity floor, and caps at topK.
type Repo struct {
	store store
	cfg   Config
}

// New creates a forecast retriever.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// Retrieve returns up to topK documents most similar to vector. Fewer than
// topK matches, including zero, is a valid result, not an error.
func (r *Repo) Retrieve(ctx context.Context, vector domain.Vector, topK int) (domain.RetrievalResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", domain.ErrRetrieval, topK)
	}

	q := &db.KNNQuery{
		IndexName: r.cfg.IndexName,
		Vector:    vector,
		K:         topK,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: search knn: %w", domain.ErrRetrieval, err)
	}
	if sr == nil {
		return nil, fmt.Errorf("%w: %w: nil search result", domain.ErrRetrieval, domain.ErrMalformedResponse)
	}

	result := make(domain.RetrievalResult, 0, len(sr.Entries))
	seen := make(map[string]struct{}, len(sr.Entries))

	for _, entry := range sr.Entries {
		doc, ok := parseEntry(r.cfg.KeyPrefix, entry)
		if !ok {
			continue // entry without content is unusable as grounding
		}
		if _, dup := seen[doc.ID]; dup {
			continue
		}
		if r.cfg.MinSimilarity > 0 && entry.Score < r.cfg.MinSimilarity {
			continue
		}
		seen[doc.ID] = struct{}{}
		result = append(result, domain.ScoredDocument{Document: doc, Similarity: entry.Score})
		if len(result) == topK {
			break
		}
	}

	metrics.RetrievedDocuments.Observe(float64(len(result)))

	return result, nil
}

// parseEntry maps flat hash fields onto a Document. Known fields go into the
// typed metadata slots, the rest split into tags and numerics by parseability.
func parseEntry(keyPrefix string, entry db.SearchEntry) (domain.Document, bool) {
	doc := domain.Document{
		ID: strings.TrimPrefix(entry.Key, keyPrefix),
		Metadata: domain.Metadata{
			Tags:     make(map[string]string),
			Numerics: make(map[string]float64),
		},
	}

	for k, v := range entry.Fields {
		switch k {
		case "__content":
			doc.Content = v
		case "__vector":
			// stored embedding, not needed downstream
		case "beach":
			doc.Metadata.Beach = v
		case "date":
			doc.Metadata.Date = v
		default:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				doc.Metadata.Numerics[k] = f
			} else {
				doc.Metadata.Tags[k] = v
			}
		}
	}

	if doc.Content == "" {
		return domain.Document{}, false
	}
	return doc, true
}
