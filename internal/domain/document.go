package domain

// Vector is a fixed-dimension embedding. The dimension is set by the
// configured embedding model and is identical for every vector in a deployment.
type Vector = []float32

// Metadata carries the forecast attributes stored alongside a document.
// Tags hold string fields (beach name, swell direction), Numerics hold
// measurements (wave height in meters, period in seconds, wind speed).
type Metadata struct {
	Beach    string
	Date     string
	Tags     map[string]string
	Numerics map[string]float64
}

// Document is a stored forecast document read from the vector index.
// The pipeline never creates or mutates documents.
type Document struct {
	ID       string
	Content  string
	Metadata Metadata
}

// ScoredDocument pairs a document with the similarity the index reported for it.
type ScoredDocument struct {
	Document   Document
	Similarity float64
}

// RetrievalResult is an ordered set of scored documents, strictly descending
// by similarity, with unique document ids and length bounded by topK.
type RetrievalResult []ScoredDocument

// SourceIDs returns the document ids in ranked order.
func (r RetrievalResult) SourceIDs() []string {
	ids := make([]string, len(r))
	for i, sd := range r {
		ids[i] = sd.Document.ID
	}
	return ids
}
