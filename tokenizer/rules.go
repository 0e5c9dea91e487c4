package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitRule decides where one unit ends and the next begins.
type SplitRule interface {
	Name() string
	// Cuts returns byte offsets, in increasing order, at which the text is
	// cut into units. Each offset is an exclusive unit end; 0 and len(text)
	// are implicit.
	Cuts(text string) []int
}

// SentenceRule cuts after sentence-ending punctuation. ASCII terminators
// must be followed by whitespace so that abbreviations and decimals like
// "3.14" stay intact; fullwidth terminators cut unconditionally.
type SentenceRule struct{}

func NewSentenceRule() *SentenceRule { return &SentenceRule{} }

func (r *SentenceRule) Name() string { return "sentence" }

func (r *SentenceRule) Cuts(text string) []int {
	var cuts []int
	for i, rn := range text {
		if !isTerminator(rn) {
			continue
		}
		next := i + utf8.RuneLen(rn)
		if next >= len(text) {
			break
		}
		nr, _ := utf8.DecodeRuneInString(text[next:])
		if isTerminator(nr) {
			// Cut once, after the whole run ("...", "?!").
			continue
		}
		if rn > unicode.MaxASCII || unicode.IsSpace(nr) {
			cuts = append(cuts, next)
		}
	}
	return cuts
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '？', '！':
		return true
	}
	return false
}

// ParagraphRule cuts at blank lines. The separator whitespace is left at the
// head of the following unit so the partition stays exact.
type ParagraphRule struct{}

func NewParagraphRule() *ParagraphRule { return &ParagraphRule{} }

func (r *ParagraphRule) Name() string { return "paragraph" }

func (r *ParagraphRule) Cuts(text string) []int {
	var cuts []int
	i := 0
	for i < len(text) {
		j := strings.Index(text[i:], "\n\n")
		if j < 0 {
			break
		}
		cut := i + j
		cuts = append(cuts, cut)
		k := cut
		for k < len(text) && isInterParagraphSpace(text[k]) {
			k++
		}
		i = k
	}
	return cuts
}

func isInterParagraphSpace(b byte) bool {
	return b == '\n' || b == '\r' || b == ' ' || b == '\t'
}
