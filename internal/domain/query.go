package domain

import "strings"

// Query is a single user question entering the pipeline. Immutable once built.
type Query struct {
	Text      string
	SessionID string
}

// NewQuery validates and creates a query. The text must be non-empty after
// trimming; the session id is opaque and may be empty.
func NewQuery(text, sessionID string) (Query, error) {
	if strings.TrimSpace(text) == "" {
		return Query{}, ErrEmptyQuery
	}
	return Query{Text: text, SessionID: sessionID}, nil
}
