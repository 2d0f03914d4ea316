package forecast

import (
	"context"
	"errors"
	"testing"

	"github.com/findyourwave/surfcoach/internal/db"
	"github.com/findyourwave/surfcoach/internal/domain"
)

func TestRetrieve_OrderedAndStripped(t *testing.T) {
	repo, ms := newTestRepo(t, Config{})
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 2, Entries: []db.SearchEntry{
			entry("jukdo-0612", 0.95, "죽도 해수욕장 6/12 파고 1.2m"),
			entry("jukdo-0613", 0.90, "죽도 해수욕장 6/13 파고 0.8m"),
		}}, nil
	}

	result, err := repo.Retrieve(context.Background(), testVector(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(result))
	}
	if result[0].Document.ID != "jukdo-0612" {
		t.Errorf("id = %q, want key prefix stripped", result[0].Document.ID)
	}
	if result[0].Similarity < result[1].Similarity {
		t.Error("expected descending similarity")
	}
	if ms.lastQuery.IndexName != "idx:forecasts" {
		t.Errorf("index name = %q", ms.lastQuery.IndexName)
	}
	if ms.lastQuery.K != 10 {
		t.Errorf("k = %d, want 10", ms.lastQuery.K)
	}
}

func TestRetrieve_DeduplicatesAndCaps(t *testing.T) {
	repo, ms := newTestRepo(t, Config{})
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 4, Entries: []db.SearchEntry{
			entry("a", 0.9, "doc a"),
			entry("a", 0.9, "doc a again"),
			entry("b", 0.8, "doc b"),
			entry("c", 0.7, "doc c"),
		}}, nil
	}

	result, err := repo.Retrieve(context.Background(), testVector(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected topK cap of 2, got %d", len(result))
	}
	ids := result.SourceIDs()
	if ids[0] != "a" || ids[1] != "b" {
		t.Errorf("ids = %v, want [a b]", ids)
	}
}

func TestRetrieve_EmptyIsNotAnError(t *testing.T) {
	repo, ms := newTestRepo(t, Config{})
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{}, nil
	}

	result, err := repo.Retrieve(context.Background(), testVector(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected empty result, got %d", len(result))
	}
}

func TestRetrieve_StoreErrorWrapsRetrieval(t *testing.T) {
	repo, ms := newTestRepo(t, Config{})
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, errors.New("connection refused")
	}

	_, err := repo.Retrieve(context.Background(), testVector(), 5)
	if !errors.Is(err, domain.ErrRetrieval) {
		t.Fatalf("expected ErrRetrieval, got %v", err)
	}
}

func TestRetrieve_MinSimilarityFloor(t *testing.T) {
	repo, ms := newTestRepo(t, Config{MinSimilarity: 0.5})
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 3, Entries: []db.SearchEntry{
			entry("a", 0.9, "strong match"),
			entry("b", 0.49, "weak match"),
			entry("c", 0.1, "noise"),
		}}, nil
	}

	result, err := repo.Retrieve(context.Background(), testVector(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 || result[0].Document.ID != "a" {
		t.Errorf("expected only doc a above the floor, got %v", result.SourceIDs())
	}
}

func TestRetrieve_SkipsContentlessEntries(t *testing.T) {
	repo, ms := newTestRepo(t, Config{})
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 2, Entries: []db.SearchEntry{
			{Key: "forecast:broken", Score: 0.9, Fields: map[string]string{"beach": "죽도"}},
			entry("ok", 0.8, "usable content"),
		}}, nil
	}

	result, err := repo.Retrieve(context.Background(), testVector(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 || result[0].Document.ID != "ok" {
		t.Errorf("expected only the contentful doc, got %v", result.SourceIDs())
	}
}

func TestParseEntry_MetadataSplit(t *testing.T) {
	e := db.SearchEntry{
		Key:   "forecast:jukdo-0612",
		Score: 0.9,
		Fields: map[string]string{
			"__content":   "내일 죽도 파고 1.2m 주기 9초",
			"beach":       "죽도 해수욕장",
			"date":        "2026-06-12",
			"wave_height": "1.2",
			"period":      "9",
			"wind":        "onshore",
		},
	}

	doc, ok := parseEntry("forecast:", e)
	if !ok {
		t.Fatal("expected parseable entry")
	}
	if doc.Metadata.Beach != "죽도 해수욕장" || doc.Metadata.Date != "2026-06-12" {
		t.Errorf("typed metadata = %+v", doc.Metadata)
	}
	if doc.Metadata.Numerics["wave_height"] != 1.2 || doc.Metadata.Numerics["period"] != 9 {
		t.Errorf("numerics = %v", doc.Metadata.Numerics)
	}
	if doc.Metadata.Tags["wind"] != "onshore" {
		t.Errorf("tags = %v", doc.Metadata.Tags)
	}
}
