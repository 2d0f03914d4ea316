package domain

// ContextBlock is the bounded textual context handed to the generator.
// Text never exceeds the configured budget; SourceIDs lists the documents
// actually included, in retrieval order.
type ContextBlock struct {
	Text      string
	SourceIDs []string
}

// Empty reports whether no document survived assembly.
func (c ContextBlock) Empty() bool { return len(c.SourceIDs) == 0 }
