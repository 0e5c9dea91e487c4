package splitter

import (
	"strings"

	"github.com/sevigo/textwindow/schema"
)

// BoundaryRule reports whether the unit at index ends on a natural break,
// such as a paragraph end. Dynamic strategies stop growing a window once the
// last included unit is a break.
type BoundaryRule interface {
	IsBoundary(units []schema.Unit, index int) bool
}

// BoundaryRuleFunc adapts a plain function to the BoundaryRule interface.
type BoundaryRuleFunc func(units []schema.Unit, index int) bool

func (f BoundaryRuleFunc) IsBoundary(units []schema.Unit, index int) bool {
	return f(units, index)
}

// DensityFunc scores a window's content in [0,1]. Higher density means the
// planner advances with a smaller step, sampling the region more densely.
type DensityFunc interface {
	Density(units []schema.Unit) float64
}

// DensityFn adapts a plain function to the DensityFunc interface.
type DensityFn func(units []schema.Unit) float64

func (f DensityFn) Density(units []schema.Unit) float64 {
	return f(units)
}

// ParagraphBoundary marks a unit as a break when a blank line separates it
// from the next unit. With the sentence tokenizer the separator whitespace
// sits at the head of the following unit, so both sides are checked.
type ParagraphBoundary struct{}

func NewParagraphBoundary() ParagraphBoundary { return ParagraphBoundary{} }

func (ParagraphBoundary) IsBoundary(units []schema.Unit, index int) bool {
	if index < 0 || index >= len(units) {
		return false
	}
	if strings.HasSuffix(strings.TrimRight(units[index].Text, " \t"), "\n\n") {
		return true
	}
	if index+1 < len(units) {
		return strings.Contains(leadingWhitespace(units[index+1].Text), "\n\n")
	}
	return false
}

func leadingWhitespace(s string) string {
	for i, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return s[:i]
		}
	}
	return s
}

// TermDensity is the built-in density scorer: the ratio of distinct terms to
// total terms in the window. Repetitive stretches score low and are stepped
// over faster.
type TermDensity struct{}

func NewTermDensity() TermDensity { return TermDensity{} }

func (TermDensity) Density(units []schema.Unit) float64 {
	seen := make(map[string]struct{})
	total := 0
	for _, u := range units {
		for _, term := range strings.Fields(u.Text) {
			term = strings.ToLower(strings.Trim(term, ".,;:!?\"'()[]{}"))
			if term == "" {
				continue
			}
			total++
			seen[term] = struct{}{}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(len(seen)) / float64(total)
}
