package splitter

import (
	"context"
	"log/slog"

	"github.com/sevigo/textwindow/schema"
	"github.com/sevigo/textwindow/tokenizer"
)

// Splitter runs the full segmentation pipeline for one strategy config:
// tokenize into units, plan windows, materialize chunks. It holds no mutable
// state and is safe for concurrent use across documents.
type Splitter struct {
	tokenizer *tokenizer.Tokenizer
	config    StrategyConfig
	logger    *slog.Logger
}

// DocumentFailure records one document the batch could not process.
type DocumentFailure struct {
	DocumentID string
	Err        error
}

// BatchResult carries the chunks of all successfully processed documents
// together with the per-document failures.
type BatchResult struct {
	Chunks   []schema.Chunk
	Failures []DocumentFailure
}

func New(tok *tokenizer.Tokenizer, cfg StrategyConfig, logger *slog.Logger) (*Splitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{
		tokenizer: tok,
		config:    cfg,
		logger:    logger.With("component", "splitter", "strategy", string(cfg.Strategy)),
	}, nil
}

// SplitDocument segments a single document into chunks.
func (s *Splitter) SplitDocument(doc schema.Document) ([]schema.Chunk, error) {
	units, err := s.tokenizer.Segment(doc)
	if err != nil {
		return nil, err
	}

	windows, err := PlanWindows(units, s.config)
	if err != nil {
		return nil, err
	}

	chunks := Materialize(doc, units, windows)
	s.logger.Debug("document split", "document", doc.ID, "units", len(units), "chunks", len(chunks))
	return chunks, nil
}

// SplitDocuments processes a batch. One document's failure never aborts the
// rest: failures are collected and returned alongside the successful chunks.
// Cancellation is honored between documents.
func (s *Splitter) SplitDocuments(ctx context.Context, docs []schema.Document) (BatchResult, error) {
	var result BatchResult
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		chunks, err := s.SplitDocument(doc)
		if err != nil {
			s.logger.Warn("skipping document", "document", doc.ID, "error", err)
			result.Failures = append(result.Failures, DocumentFailure{DocumentID: doc.ID, Err: err})
			continue
		}
		result.Chunks = append(result.Chunks, chunks...)
	}
	return result, nil
}

// Config returns the splitter's strategy configuration.
func (s *Splitter) Config() StrategyConfig {
	return s.config
}
