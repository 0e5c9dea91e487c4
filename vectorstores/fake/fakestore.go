// Package fake is an in-memory vector store for testing. Similarity is a
// plain term-overlap count, which keeps retrieval behavior predictable
// without any embedding model.
package fake

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sevigo/textwindow/schema"
	"github.com/sevigo/textwindow/vectorstores"
)

type Store struct {
	mu     sync.Mutex
	chunks []schema.Chunk

	// AddErr, when set, is returned by AddChunks; lets tests simulate a
	// failing sink.
	AddErr error
}

var _ vectorstores.VectorStore = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) AddChunks(_ context.Context, chunks []schema.Chunk, _ ...vectorstores.Option) ([]string, error) {
	if s.AddErr != nil {
		return nil, s.AddErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(chunks))
	for i, c := range chunks {
		s.chunks = append(s.chunks, c)
		ids[i] = c.ID
	}
	return ids, nil
}

func (s *Store) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	scored, err := s.SimilaritySearchWithScores(ctx, query, numDocuments, options...)
	if err != nil {
		return nil, err
	}
	docs := make([]schema.Document, len(scored))
	for i, r := range scored {
		docs[i] = r.Document
	}
	return docs, nil
}

func (s *Store) SimilaritySearchWithScores(_ context.Context, query string, numDocuments int, _ ...vectorstores.Option) ([]vectorstores.DocumentWithScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms := strings.Fields(strings.ToLower(query))
	scored := make([]vectorstores.DocumentWithScore, 0, len(s.chunks))
	for _, c := range s.chunks {
		text := strings.ToLower(c.Text)
		score := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				score++
			}
		}
		scored = append(scored, vectorstores.DocumentWithScore{
			Document: schema.Document{ID: c.ID, Text: c.Text, Metadata: c.Metadata},
			Score:    float32(score),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > numDocuments {
		scored = scored[:numDocuments]
	}
	return scored, nil
}

// Chunks returns everything added so far.
func (s *Store) Chunks() []schema.Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]schema.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}
