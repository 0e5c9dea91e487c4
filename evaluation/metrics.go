// Package evaluation provides ready-made retrieval quality functions for the
// parameter optimizer. A retrieved chunk counts as relevant when it contains
// the case's ground-truth passage (or the passage contains the chunk, for
// passages longer than one chunk); chunk IDs cannot serve as ground truth
// because they change with every candidate configuration.
package evaluation

import (
	"context"
	"errors"
	"strings"

	"github.com/sevigo/textwindow/schema"
)

var ErrEmptyEvalSet = errors.New("evaluation set is empty")

// The returned functions match the optimizer's pluggable QualityFunc
// contract; they are typed as plain functions so callers assign them without
// conversion.

// RecallAtK scores the fraction of evaluation cases whose relevant passage
// shows up among the top k retrieved chunks.
func RecallAtK(k int) func(ctx context.Context, evalSet []schema.EvalCase, retriever schema.Retriever) (float64, error) {
	return func(ctx context.Context, evalSet []schema.EvalCase, retriever schema.Retriever) (float64, error) {
		if len(evalSet) == 0 {
			return 0, ErrEmptyEvalSet
		}

		hits := 0
		for _, ec := range evalSet {
			docs, err := retriever.GetRelevantDocuments(ctx, ec.Query)
			if err != nil {
				return 0, err
			}
			if len(docs) > k {
				docs = docs[:k]
			}
			for _, doc := range docs {
				if isRelevant(doc.Text, ec.RelevantPassage) {
					hits++
					break
				}
			}
		}
		return float64(hits) / float64(len(evalSet)), nil
	}
}

// MRR scores the mean reciprocal rank of the first relevant chunk per case;
// a case with no relevant chunk retrieved contributes 0.
func MRR() func(ctx context.Context, evalSet []schema.EvalCase, retriever schema.Retriever) (float64, error) {
	return func(ctx context.Context, evalSet []schema.EvalCase, retriever schema.Retriever) (float64, error) {
		if len(evalSet) == 0 {
			return 0, ErrEmptyEvalSet
		}

		sum := 0.0
		for _, ec := range evalSet {
			docs, err := retriever.GetRelevantDocuments(ctx, ec.Query)
			if err != nil {
				return 0, err
			}
			for rank, doc := range docs {
				if isRelevant(doc.Text, ec.RelevantPassage) {
					sum += 1.0 / float64(rank+1)
					break
				}
			}
		}
		return sum / float64(len(evalSet)), nil
	}
}

func isRelevant(chunkText, passage string) bool {
	chunk := normalize(chunkText)
	want := normalize(passage)
	if want == "" {
		return false
	}
	return strings.Contains(chunk, want) || strings.Contains(want, chunk)
}

// normalize collapses whitespace and lowercases, so segmentation-dependent
// spacing never decides a hit.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
