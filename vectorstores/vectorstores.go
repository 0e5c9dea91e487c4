package vectorstores

import (
	"context"
	"errors"

	"github.com/sevigo/textwindow/schema"
)

var ErrCollectionNotFound = errors.New("collection not found")

// VectorStore is the chunk sink: the segmentation pipeline emits chunks and
// a store vectorizes and persists them. Retrieved results come back as
// documents whose metadata carries the originating chunk's identity.
type VectorStore interface {
	AddChunks(ctx context.Context, chunks []schema.Chunk, options ...Option) ([]string, error)
	SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...Option) ([]schema.Document, error)
	SimilaritySearchWithScores(ctx context.Context, query string, numDocuments int, options ...Option) ([]DocumentWithScore, error)
}

type DocumentWithScore struct {
	Document schema.Document
	Score    float32
}

type Options struct {
	ScoreThreshold float32
}

type Option func(*Options)

func WithScoreThreshold(threshold float32) Option {
	return func(opts *Options) {
		opts.ScoreThreshold = threshold
	}
}

func ParseOptions(options ...Option) Options {
	var opts Options
	for _, option := range options {
		option(&opts)
	}
	return opts
}
