package schema

import (
	"context"
	"fmt"
)

// Document is an immutable source text supplied by an external loader.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

func NewDocument(id, text string, metadata map[string]string) Document {
	if metadata == nil {
		metadata = make(map[string]string)
	}
	return Document{
		ID:       id,
		Text:     text,
		Metadata: metadata,
	}
}

func (d Document) String() string {
	return fmt.Sprintf("%s (%d chars)", d.ID, len(d.Text))
}

// Unit is an atomic span of a document, typically one sentence. Units
// partition the document text exactly: unit[i].End == unit[i+1].Start,
// the first unit starts at 0 and the last ends at len(document.Text).
type Unit struct {
	Index int
	Start int
	End   int
	Text  string
}

// WindowSpec is a half-open range of unit indices [Start, End) selected for
// one chunk, together with the step that produced it. WindowSpecs are
// consumed immediately by the materializer and never persisted.
type WindowSpec struct {
	Start int
	End   int
	Step  int
}

func (w WindowSpec) Size() int {
	return w.End - w.Start
}

// Chunk is the retrievable unit emitted by the materializer. Text is a
// verbatim substring of the source document; ID is a pure function of
// (document ID, Start, End), so re-materializing the same window yields the
// same ID.
type Chunk struct {
	ID         string
	DocumentID string
	Text       string
	Start      int // first unit index, inclusive
	End        int // last unit index, exclusive
	CharStart  int
	CharEnd    int
	Overlap    float64 // fraction of the previous chunk's units shared with this one
	Metadata   map[string]string
}

func (c Chunk) UnitCount() int {
	return c.End - c.Start
}

// EvalCase is one held-out query with its ground-truth passage. Relevance is
// judged by containment because chunk identities shift between candidate
// configurations.
type EvalCase struct {
	Query           string
	RelevantPassage string
}

// EvaluationResult summarizes one candidate configuration's retrieval
// quality.
type EvaluationResult struct {
	WindowUnits int
	StepUnits   int
	Score       float64
	TotalChunks int
	AvgChunkLen float64
}

func (r EvaluationResult) String() string {
	return fmt.Sprintf("window=%d step=%d score=%.4f chunks=%d avg_len=%.1f",
		r.WindowUnits, r.StepUnits, r.Score, r.TotalChunks, r.AvgChunkLen)
}

// Retriever is the interface for fetching relevant documents for a query.
type Retriever interface {
	GetRelevantDocuments(ctx context.Context, query string) ([]Document, error)
}
