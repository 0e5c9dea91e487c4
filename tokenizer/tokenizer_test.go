package tokenizer_test

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/textwindow/schema"
	"github.com/sevigo/textwindow/tokenizer"
)

func newTestTokenizer(rule tokenizer.SplitRule) *tokenizer.Tokenizer {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return tokenizer.New(rule, logger)
}

func TestTokenizer_EmptyDocument(t *testing.T) {
	tok := newTestTokenizer(nil)
	_, err := tok.Segment(schema.NewDocument("doc-1", "", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, tokenizer.ErrEmptyDocument)
}

func TestTokenizer_SentenceRule(t *testing.T) {
	tok := newTestTokenizer(tokenizer.NewSentenceRule())

	tests := []struct {
		name      string
		text      string
		wantUnits []string
	}{
		{
			name:      "three sentences",
			text:      "First sentence. Second one! Third?",
			wantUnits: []string{"First sentence.", " Second one!", " Third?"},
		},
		{
			name:      "single sentence no terminator",
			text:      "no terminator at all",
			wantUnits: []string{"no terminator at all"},
		},
		{
			name:      "decimal number stays intact",
			text:      "Pi is 3.14 roughly. Done.",
			wantUnits: []string{"Pi is 3.14 roughly.", " Done."},
		},
		{
			name:      "terminator run cuts once",
			text:      "Really?! Yes. ",
			wantUnits: []string{"Really?!", " Yes. "},
		},
		{
			name:      "fullwidth terminators",
			text:      "你好。再见。",
			wantUnits: []string{"你好。", "再见。"},
		},
		{
			name:      "whitespace only document",
			text:      "   \n ",
			wantUnits: []string{"   \n "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units, err := tok.Segment(schema.NewDocument("doc", tt.text, nil))
			require.NoError(t, err)

			got := make([]string, len(units))
			for i, u := range units {
				got[i] = u.Text
			}
			assert.Equal(t, tt.wantUnits, got)
			assertPartition(t, tt.text, units)
		})
	}
}

func TestTokenizer_ParagraphRule(t *testing.T) {
	tok := newTestTokenizer(tokenizer.NewParagraphRule())

	text := "para one\n\npara two\n\n\npara three\n\n"
	units, err := tok.Segment(schema.NewDocument("doc", text, nil))
	require.NoError(t, err)

	require.Len(t, units, 3)
	assert.Equal(t, "para one", units[0].Text)
	assert.Equal(t, "\n\npara two", units[1].Text)
	// Trailing blank line folds into the last unit.
	assert.Equal(t, "\n\n\npara three\n\n", units[2].Text)
	assertPartition(t, text, units)
}

func TestTokenizer_PartitionInvariant(t *testing.T) {
	texts := []string{
		"One. Two. Three.",
		"Leading text without end",
		"你好。Hello there. 再见。",
		"a\n\nb\n\nc",
		strings.Repeat("Sentence number x. ", 200),
	}

	for _, rule := range []tokenizer.SplitRule{tokenizer.NewSentenceRule(), tokenizer.NewParagraphRule()} {
		tok := newTestTokenizer(rule)
		for _, text := range texts {
			units, err := tok.Segment(schema.NewDocument("doc", text, nil))
			require.NoError(t, err)
			assertPartition(t, text, units)
		}
	}
}

func TestTokenizer_Deterministic(t *testing.T) {
	tok := newTestTokenizer(nil)
	doc := schema.NewDocument("doc", "Alpha beta. Gamma delta! Epsilon?", nil)

	first, err := tok.Segment(doc)
	require.NoError(t, err)
	second, err := tok.Segment(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// assertPartition verifies units exactly tile the source text.
func assertPartition(t *testing.T, text string, units []schema.Unit) {
	t.Helper()
	require.NotEmpty(t, units)

	assert.Equal(t, 0, units[0].Start)
	assert.Equal(t, len(text), units[len(units)-1].End)

	var rebuilt strings.Builder
	prevEnd := 0
	for i, u := range units {
		assert.Equal(t, i, u.Index)
		assert.Equal(t, prevEnd, u.Start, "gap or overlap before unit %d", i)
		assert.Equal(t, text[u.Start:u.End], u.Text)
		rebuilt.WriteString(u.Text)
		prevEnd = u.End
	}
	assert.Equal(t, text, rebuilt.String())
}
