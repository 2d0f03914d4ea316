package forecast

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/findyourwave/surfcoach/internal/db"
	"github.com/findyourwave/surfcoach/internal/domain"
)

// writeBatchSize bounds one HSetMulti round-trip.
const writeBatchSize = 100

// writerStore is the consumer interface for indexing operations.
type writerStore interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
}

// Forecast couples a document with its embedding for indexing.
type Forecast struct {
	Document domain.Document
	Vector   domain.Vector
}

// Indexer writes forecast documents into the FT index the retriever reads.
type Indexer struct {
	store writerStore
	cfg   Config
	dim   int
}

// NewIndexer creates a forecast indexer. dim is the embedding dimension the
// index schema is created with; every written vector must match it.
func NewIndexer(s writerStore, cfg Config, dim int) *Indexer {
	return &Indexer{store: s, cfg: cfg, dim: dim}
}

// EnsureIndex creates the FT index if it does not exist (idempotent).
func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := ix.store.IndexExists(ctx, ix.cfg.IndexName)
	if err != nil {
		return fmt.Errorf("probe index %q: %w", ix.cfg.IndexName, err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     ix.cfg.IndexName,
		Prefixes: []string{ix.cfg.KeyPrefix},
		Fields: []db.IndexField{
			{Name: "beach", Type: db.IndexFieldTag},
			{Name: "date", Type: db.IndexFieldTag},
			{Name: "__content", Type: db.IndexFieldText},
			{Name: "__vector", Alias: "vector", Type: db.IndexFieldVector, VectorDim: ix.dim},
		},
	}

	if err := ix.store.CreateIndex(ctx, def); err != nil {
		// Lost the creation race, index is there either way.
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %q: %w", ix.cfg.IndexName, err)
	}
	return nil
}

// Upsert writes forecasts as hashes under the index prefix, in batches.
func (ix *Indexer) Upsert(ctx context.Context, forecasts []Forecast) error {
	items := make([]db.HashSetItem, 0, len(forecasts))
	for i := range forecasts {
		item, err := ix.buildItem(&forecasts[i])
		if err != nil {
			return fmt.Errorf("forecast %d: %w", i, err)
		}
		items = append(items, item)
	}

	for start := 0; start < len(items); start += writeBatchSize {
		end := min(start+writeBatchSize, len(items))
		if err := ix.store.HSetMulti(ctx, items[start:end]); err != nil {
			return fmt.Errorf("write batch at %d: %w", start, err)
		}
	}
	return nil
}

func (ix *Indexer) buildItem(f *Forecast) (db.HashSetItem, error) {
	if f.Document.ID == "" {
		return db.HashSetItem{}, errors.New("document id is required")
	}
	if f.Document.Content == "" {
		return db.HashSetItem{}, errors.New("document content is required")
	}
	if len(f.Vector) != ix.dim {
		return db.HashSetItem{}, fmt.Errorf("%w: expected %d dimensions, got %d",
			domain.ErrDimensionMismatch, ix.dim, len(f.Vector))
	}

	return db.HashSetItem{
		Key:    ix.cfg.KeyPrefix + f.Document.ID,
		Fields: buildHashFields(&f.Document, f.Vector),
	}, nil
}

// buildHashFields flattens a document and its embedding into HSET fields,
// the inverse of parseEntry.
func buildHashFields(doc *domain.Document, vec domain.Vector) map[string]string {
	m := make(map[string]string, 4+len(doc.Metadata.Tags)+len(doc.Metadata.Numerics))
	m["__content"] = doc.Content
	m["__vector"] = vectorBlob(vec)
	if doc.Metadata.Beach != "" {
		m["beach"] = doc.Metadata.Beach
	}
	if doc.Metadata.Date != "" {
		m["date"] = doc.Metadata.Date
	}
	for k, v := range doc.Metadata.Tags {
		m[k] = v
	}
	for k, v := range doc.Metadata.Numerics {
		m[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return m
}

// vectorBlob serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorBlob(v domain.Vector) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
