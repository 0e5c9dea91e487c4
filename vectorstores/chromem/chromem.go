// Package chromem backs the vectorstores.VectorStore interface with an
// in-memory chromem-go collection. Every New call builds an isolated
// database, which makes it the natural ephemeral index for the parameter
// optimizer: one fresh collection per candidate, discarded afterwards.
package chromem

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"strconv"
	"strings"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/sevigo/textwindow/embeddings"
	"github.com/sevigo/textwindow/schema"
	"github.com/sevigo/textwindow/vectorstores"
)

const defaultCollectionName = "chunks"

type Store struct {
	collection *chromemgo.Collection
	logger     *slog.Logger
}

var _ vectorstores.VectorStore = (*Store)(nil)

type options struct {
	collectionName string
	logger         *slog.Logger
}

type Option func(*options)

func WithCollectionName(name string) Option {
	return func(o *options) {
		if strings.TrimSpace(name) != "" {
			o.collectionName = name
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates a store over a fresh in-memory database.
func New(embedder embeddings.Embedder, opts ...Option) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("chromem: embedder is required")
	}
	o := options{
		collectionName: defaultCollectionName,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	embedFunc := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}

	collection, err := chromemgo.NewDB().CreateCollection(o.collectionName, nil, embedFunc)
	if err != nil {
		return nil, fmt.Errorf("chromem: creating collection %q: %w", o.collectionName, err)
	}

	return &Store{
		collection: collection,
		logger:     o.logger.With("component", "chromem_store", "collection", o.collectionName),
	}, nil
}

func (s *Store) AddChunks(ctx context.Context, chunks []schema.Chunk, _ ...vectorstores.Option) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	docs := make([]chromemgo.Document, len(chunks))
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		metadata := maps.Clone(c.Metadata)
		if metadata == nil {
			metadata = make(map[string]string, 4)
		}
		metadata["document_id"] = c.DocumentID
		metadata["char_start"] = strconv.Itoa(c.CharStart)
		metadata["char_end"] = strconv.Itoa(c.CharEnd)

		docs[i] = chromemgo.Document{
			ID:       c.ID,
			Content:  c.Text,
			Metadata: metadata,
		}
		ids[i] = c.ID
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("chromem: adding %d chunks: %w", len(chunks), err)
	}

	s.logger.Debug("chunks indexed", "count", len(chunks))
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

func (s *Store) SimilaritySearchWithScores(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]vectorstores.DocumentWithScore, error) {
	opts := vectorstores.ParseOptions(options...)

	if strings.TrimSpace(query) == "" || numDocuments <= 0 {
		return nil, nil
	}

	// chromem rejects nResults above the collection size.
	n := min(numDocuments, s.collection.Count())
	if n == 0 {
		return nil, nil
	}

	results, err := s.collection.Query(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query failed: %w", err)
	}

	scored := make([]vectorstores.DocumentWithScore, 0, len(results))
	for _, r := range results {
		if r.Similarity < opts.ScoreThreshold {
			continue
		}
		scored = append(scored, vectorstores.DocumentWithScore{
			Document: schema.Document{
				ID:       r.ID,
				Text:     r.Content,
				Metadata: r.Metadata,
			},
			Score: r.Similarity,
		})
	}
	return scored, nil
}
