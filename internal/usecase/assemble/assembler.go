// Package assemble turns retrieval results into a bounded context block.
package assemble

import (
	"fmt"
	"strings"

	"github.com/findyourwave/surfcoach/internal/domain"
	"github.com/findyourwave/surfcoach/internal/metrics"
)

// separator joins excerpts in the assembled context text.
const separator = "\n---\n"

// Assembler formats scored documents into citation-tagged excerpts within a
// fixed budget. It is pure and total: any input produces a valid ContextBlock
// without error.
type Assembler struct {
	budget int // max context text length in bytes of UTF-8
}

// New creates an assembler with the given positive budget.
func New(budget int) *Assembler {
	return &Assembler{budget: budget}
}

// Assemble concatenates excerpts in ranked order. When the budget would be
// exceeded, excerpts are dropped from the lowest-ranked end; a kept document
// is always included whole. An empty result yields an empty block, which is
// the degradation signal for the generator.
func (a *Assembler) Assemble(result domain.RetrievalResult) domain.ContextBlock {
	var b strings.Builder
	sourceIDs := make([]string, 0, len(result))

	for i, sd := range result {
		ex := excerpt(i, sd)

		next := b.Len() + len(ex)
		if b.Len() > 0 {
			next += len(separator)
		}
		if next > a.budget {
			break
		}

		if b.Len() > 0 {
			b.WriteString(separator)
		}
		b.WriteString(ex)
		sourceIDs = append(sourceIDs, sd.Document.ID)
	}

	if dropped := len(result) - len(sourceIDs); dropped > 0 {
		metrics.ContextSourcesDropped.Add(float64(dropped))
	}

	return domain.ContextBlock{Text: b.String(), SourceIDs: sourceIDs}
}

// excerpt renders one document as a citation-tagged block. The citation line
// carries the attributes the persona prompt tells the model to cite.
func excerpt(rank int, sd domain.ScoredDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[출처 %d: %s]", rank+1, sd.Document.ID)

	if beach := sd.Document.Metadata.Beach; beach != "" {
		fmt.Fprintf(&b, " %s", beach)
	}
	if date := sd.Document.Metadata.Date; date != "" {
		fmt.Fprintf(&b, " (%s)", date)
	}
	b.WriteString("\n")
	b.WriteString(sd.Document.Content)
	return b.String()
}
