// Package db defines the storage contract the retrieval layer consumes.
package db

import (
	"context"
	"time"
)

// Store is the vector index facade.
type Store interface {
	Pinger
	Searcher
	Indexer
	Writer
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks index connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher provides KNN search over an FT index.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}
