package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	Filter       string // raw pre-filter expression, empty means match-all
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Score is a similarity in [0, 1],
// already converted from the index's distance by the backend.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
