// Package fake provides a deterministic embedder for tests: vectors are
// derived from term hashes, so identical texts map to identical vectors and
// texts sharing vocabulary land close together.
package fake

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/sevigo/textwindow/embeddings"
)

const defaultDimension = 64

type Embedder struct {
	dimension int
}

var _ embeddings.Embedder = (*Embedder)(nil)

func New() *Embedder {
	return &Embedder{dimension: defaultDimension}
}

func NewWithDimension(dim int) *Embedder {
	if dim <= 0 {
		dim = defaultDimension
	}
	return &Embedder{dimension: dim}
}

func (e *Embedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i] = e.embed(t)
	}
	return vectors, nil
}

func (e *Embedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

// embed builds a normalized bag-of-terms vector: each term bumps the
// dimension its hash selects.
func (e *Embedder) embed(text string) []float32 {
	vec := make([]float32, e.dimension)
	for _, term := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(strings.Trim(term, ".,;:!?\"'()")))
		vec[h.Sum32()%uint32(e.dimension)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
