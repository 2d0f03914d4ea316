package db

import (
	"context"
	"errors"
)

// ErrIndexExists signals that FT.CREATE hit an existing index.
var ErrIndexExists = errors.New("index already exists")

// IndexFieldType enumerates FT index field types.
type IndexFieldType string

// Supported field types.
const (
	IndexFieldTag     IndexFieldType = "TAG"
	IndexFieldNumeric IndexFieldType = "NUMERIC"
	IndexFieldText    IndexFieldType = "TEXT"
	IndexFieldVector  IndexFieldType = "VECTOR"
)

// IndexField describes one field in an FT index schema. Vector fields are
// HNSW over FLOAT32 with cosine distance; M and EFConstruct are optional.
type IndexField struct {
	Name              string
	Alias             string
	Type              IndexFieldType
	VectorDim         int
	VectorM           int
	VectorEFConstruct int
}

// IndexDefinition describes an FT index over hash keys.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Indexer manages FT index lifecycle.
type Indexer interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HashSetItem is one hash write in a batch.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// Writer stores documents as hashes under the index prefixes.
type Writer interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
}
