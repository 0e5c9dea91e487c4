package splitter

import (
	"fmt"
	"iter"
	"maps"

	"github.com/google/uuid"

	"github.com/sevigo/textwindow/schema"
)

// chunkNamespace is the fixed UUID namespace for chunk IDs. It must never
// change: IDs have to stay stable across processes and machines so that
// re-indexing the same document overwrites rather than duplicates.
var chunkNamespace = uuid.MustParse("8a9e4bd6-2f63-4bca-9d6c-52a745a1b0fe")

// ChunkID derives the deterministic chunk identifier from the document ID
// and the window's unit range.
func ChunkID(documentID string, start, end int) string {
	name := fmt.Sprintf("%s:%d:%d", documentID, start, end)
	return uuid.NewSHA1(chunkNamespace, []byte(name)).String()
}

// Materialize converts window specs into concrete chunks. Chunk text is
// sliced straight out of the document by unit offsets, so it is always a
// verbatim substring with the original inter-unit whitespace intact.
func Materialize(doc schema.Document, units []schema.Unit, windows iter.Seq[schema.WindowSpec]) []schema.Chunk {
	var chunks []schema.Chunk
	var prev schema.WindowSpec
	hasPrev := false

	for w := range windows {
		if w.Size() <= 0 || w.Start < 0 || w.End > len(units) {
			continue
		}

		charStart := units[w.Start].Start
		charEnd := units[w.End-1].End

		overlap := 0.0
		if hasPrev {
			shared := min(prev.End, w.End) - max(prev.Start, w.Start)
			if shared > 0 {
				overlap = float64(shared) / float64(prev.Size())
			}
		}

		chunks = append(chunks, schema.Chunk{
			ID:         ChunkID(doc.ID, w.Start, w.End),
			DocumentID: doc.ID,
			Text:       doc.Text[charStart:charEnd],
			Start:      w.Start,
			End:        w.End,
			CharStart:  charStart,
			CharEnd:    charEnd,
			Overlap:    overlap,
			Metadata:   maps.Clone(doc.Metadata),
		})

		prev = w
		hasPrev = true
	}

	return chunks
}
