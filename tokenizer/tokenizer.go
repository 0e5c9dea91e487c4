package tokenizer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/textwindow/schema"
)

var ErrEmptyDocument = errors.New("document text is empty")

// Tokenizer segments documents into ordered units according to a SplitRule.
// The resulting units partition the document text exactly, so downstream
// consumers can reconstruct verbatim substrings from unit offsets.
type Tokenizer struct {
	rule   SplitRule
	logger *slog.Logger
}

func New(rule SplitRule, logger *slog.Logger) *Tokenizer {
	if rule == nil {
		rule = NewSentenceRule()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tokenizer{
		rule:   rule,
		logger: logger.With("component", "tokenizer", "rule", rule.Name()),
	}
}

// Segment splits the document into units. Same text and rule always produce
// the identical unit sequence.
func (t *Tokenizer) Segment(doc schema.Document) ([]schema.Unit, error) {
	if len(doc.Text) == 0 {
		return nil, fmt.Errorf("document %q: %w", doc.ID, ErrEmptyDocument)
	}

	cuts := t.rule.Cuts(doc.Text)
	spans := spansFromCuts(doc.Text, cuts)
	spans = mergeWhitespaceSpans(doc.Text, spans)

	units := make([]schema.Unit, len(spans))
	for i, s := range spans {
		units[i] = schema.Unit{
			Index: i,
			Start: s.start,
			End:   s.end,
			Text:  doc.Text[s.start:s.end],
		}
	}

	t.logger.Debug("document segmented", "document", doc.ID, "units", len(units))
	return units, nil
}

type span struct {
	start, end int
}

// spansFromCuts converts exclusive cut offsets into contiguous spans covering
// [0, len(text)). Cuts outside that range or out of order are discarded.
func spansFromCuts(text string, cuts []int) []span {
	var spans []span
	prev := 0
	for _, c := range cuts {
		if c <= prev || c >= len(text) {
			continue
		}
		spans = append(spans, span{start: prev, end: c})
		prev = c
	}
	spans = append(spans, span{start: prev, end: len(text)})
	return spans
}

// mergeWhitespaceSpans folds spans that contain only whitespace into the
// following span; a trailing whitespace-only span folds into its
// predecessor. Whitespace is never emitted as a standalone unit.
func mergeWhitespaceSpans(text string, spans []span) []span {
	merged := make([]span, 0, len(spans))
	carry := -1 // start of a pending whitespace run
	for _, s := range spans {
		if strings.TrimSpace(text[s.start:s.end]) == "" {
			if carry < 0 {
				carry = s.start
			}
			continue
		}
		if carry >= 0 {
			s.start = carry
			carry = -1
		}
		merged = append(merged, s)
	}
	if carry >= 0 {
		if len(merged) > 0 {
			merged[len(merged)-1].end = len(text)
		} else {
			// Whole document is whitespace; keep it as one unit so the
			// partition invariant holds.
			merged = append(merged, span{start: 0, end: len(text)})
		}
	}
	return merged
}
