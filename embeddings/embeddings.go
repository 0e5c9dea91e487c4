package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Embedder turns text into vectors. Implementations live in subpackages;
// the chunking core itself never calls one.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

var ErrEmptyText = errors.New("text cannot be empty")

const defaultBatchSize = 32

// maxConcurrentBatches bounds parallel EmbedDocuments calls against the
// backing client.
const maxConcurrentBatches = 8

type options struct {
	stripNewLines bool
	batchSize     int
}

type Option func(*options)

// WithBatchSize sets how many texts go to the backing client per call.
func WithBatchSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.batchSize = size
		}
	}
}

// WithKeepNewLines disables newline stripping before embedding.
func WithKeepNewLines() Option {
	return func(o *options) {
		o.stripNewLines = false
	}
}

// batcher wraps a raw client with preprocessing and bounded-concurrency
// batching.
type batcher struct {
	client Embedder
	opts   options
}

// NewEmbedder wraps a backing client so large chunk sets embed in parallel
// batches.
func NewEmbedder(client Embedder, opts ...Option) (Embedder, error) {
	if client == nil {
		return nil, errors.New("embeddings: client is required")
	}
	o := options{
		stripNewLines: true,
		batchSize:     defaultBatchSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &batcher{client: client, opts: o}, nil
}

func (b *batcher) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return b.client.EmbedQuery(ctx, b.preprocess(text))
}

func (b *batcher) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	processed := make([]string, len(texts))
	for i, t := range texts {
		processed[i] = b.preprocess(t)
	}

	type batch struct {
		start int
		texts []string
	}
	var batches []batch
	for i := 0; i < len(processed); i += b.opts.batchSize {
		end := min(i+b.opts.batchSize, len(processed))
		batches = append(batches, batch{start: i, texts: processed[i:end]})
	}

	vectors := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)

	for _, bt := range batches {
		g.Go(func() error {
			embedded, err := b.client.EmbedDocuments(gctx, bt.texts)
			if err != nil {
				return fmt.Errorf("embedding batch at %d: %w", bt.start, err)
			}
			if len(embedded) != len(bt.texts) {
				return fmt.Errorf("embedding batch at %d: got %d vectors for %d texts", bt.start, len(embedded), len(bt.texts))
			}
			copy(vectors[bt.start:], embedded)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (b *batcher) preprocess(text string) string {
	if b.opts.stripNewLines {
		return strings.ReplaceAll(text, "\n", " ")
	}
	return text
}
