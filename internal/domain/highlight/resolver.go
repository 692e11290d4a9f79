package highlight

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Strategy selects what happens when a fragment cannot be found verbatim,
// even after boundary trimming.
type Strategy string

const (
	// StrategyExact drops fragments that cannot be found verbatim.
	StrategyExact Strategy = "exact"
	// StrategyAligned falls back to a diff-based alignment that tolerates
	// normalization differences (e.g. collapsed whitespace) between fragment
	// and document. Every mapped span is still validated verbatim.
	StrategyAligned Strategy = "aligned"
)

// ParseStrategy validates a strategy name; empty selects StrategyExact.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyExact:
		return StrategyExact, nil
	case StrategyAligned:
		return StrategyAligned, nil
	default:
		return "", fmt.Errorf("unknown highlight strategy %q", s)
	}
}

// DefaultMaxTrim is the default upper bound, in runes, of boundary trimming.
const DefaultMaxTrim = 32

// Options tunes fragment location.
type Options struct {
	Strategy Strategy
	// MaxTrim bounds how many runes may be trimmed from the fragment boundaries
	// while searching for a verbatim match. Trimming never removes more than
	// half of the fragment. Zero disables trimming.
	MaxTrim int
}

// DefaultOptions returns exact matching with boundary trimming enabled.
func DefaultOptions() Options {
	return Options{Strategy: StrategyExact, MaxTrim: DefaultMaxTrim}
}

// Resolver translates highlight fragments into document offsets.
// A Resolver is immutable and safe for concurrent use.
type Resolver struct {
	tokenizer Tokenizer
	opts      Options
}

// NewResolver creates a Resolver that tokenizes fragments with tok.
func NewResolver(tok Tokenizer, opts Options) *Resolver {
	if opts.Strategy == "" {
		opts.Strategy = StrategyExact
	}
	if opts.MaxTrim < 0 {
		opts.MaxTrim = 0
	}
	return &Resolver{tokenizer: tok, opts: opts}
}

// Options returns the resolver options.
func (r *Resolver) Options() Options { return r.opts }

// Resolve resolves one fragment against original from the start of the text.
func (r *Resolver) Resolve(fragment, original string) []Highlight {
	return r.NewCursor().Resolve(fragment, original).Highlights
}

// NewCursor starts a forward search cursor for the fragments of one hit.
func (r *Resolver) NewCursor() *Cursor {
	return &Cursor{r: r}
}

// Cursor resolves successive fragments of one hit. Each fragment is preferably
// anchored at or after the previous fragment's position, so repeated text does
// not re-anchor every fragment at the first occurrence. A Cursor is not safe for
// concurrent use.
//
// Offsets increase across fragments only while each fragment occurs at or after
// the cursor. A fragment found only before the cursor resolves to its first
// occurrence, since backends do not promise fragments in document order; the
// cursor itself never moves backwards.
type Cursor struct {
	r   *Resolver
	pos int // byte offset into the original text
}

// Resolve resolves fragment against original and advances the cursor.
func (c *Cursor) Resolve(fragment, original string) Outcome {
	p := newPlainFragment(c.r.tokenizer.Tokenize(fragment))

	// Boundary whitespace may be part of an emphasized run, so the fragment
	// is first looked up as is.
	start := -1
	if len(p.spans) > 0 {
		start = c.locateExact(p.text, original)
	}
	if start < 0 {
		p.stripBoundaries()
		start = c.locateExact(p.text, original)
	}

	out := Outcome{Dropped: p.broken}
	if len(p.spans) == 0 {
		if start >= 0 {
			out.Located = true
			c.advance(start, original)
		}
		return out
	}

	if start < 0 {
		var lo, hi int
		start, lo, hi = c.locateTrimmed(&p, original)
		if start >= 0 {
			p.window(lo, hi)
			out.Dropped = p.broken
		}
	}

	var spans []span
	switch {
	case start >= 0:
		out.Located = true
		c.advance(start, original)
		spans = make([]span, 0, len(p.spans))
		for _, s := range p.spans {
			spans = append(spans, span{start: start + s.start, end: start + s.end})
		}
	case c.r.opts.Strategy == StrategyAligned:
		var anchor int
		spans, anchor = alignSpans(&p, original, c.pos)
		if anchor < 0 {
			out.Dropped += len(p.spans)
			return out
		}
		out.Located = true
		c.advance(anchor, original)
	default:
		out.Dropped += len(p.spans)
		return out
	}

	idx := runeIndexer{text: original}
	for i, s := range spans {
		want := p.spanText(p.spans[i])
		if !validSpan(original, s, want) {
			out.Dropped++
			continue
		}
		out.Highlights = append(out.Highlights, Highlight{
			Begin: idx.at(s.start),
			End:   idx.at(s.end),
			Text:  want,
		})
	}
	return out
}

// locateExact returns the byte offset of needle in text, preferring the first
// occurrence at or after the cursor. It returns -1 when needle does not occur.
func (c *Cursor) locateExact(needle, text string) int {
	if needle == "" {
		return -1
	}
	if c.pos <= len(text) {
		if i := strings.Index(text[c.pos:], needle); i >= 0 {
			return c.pos + i
		}
	}
	return strings.Index(text, needle)
}

// locateTrimmed searches progressively shorter windows of the fragment, trailing
// trims first. A window must keep at least one emphasized span intact.
// It returns the match offset and the window bounds within the fragment.
func (c *Cursor) locateTrimmed(p *plainFragment, text string) (start, lo, hi int) {
	bounds := runeBounds(p.text)
	n := len(bounds) - 1
	limit := min(c.r.opts.MaxTrim, n/2)

	for t := 1; t <= limit; t++ {
		for lead := 0; lead <= t; lead++ {
			lo, hi = bounds[lead], bounds[n-(t-lead)]
			if !coversSpan(p.spans, lo, hi) {
				continue
			}
			if start = c.locateExact(p.text[lo:hi], text); start >= 0 {
				return start, lo, hi
			}
		}
	}
	return -1, 0, 0
}

// advance moves the cursor just past the first rune of a fragment located at start.
// The cursor never moves backwards.
func (c *Cursor) advance(start int, text string) {
	next := start
	if start < len(text) {
		_, size := utf8.DecodeRuneInString(text[start:])
		next += size
	}
	if next > c.pos {
		c.pos = next
	}
}

func coversSpan(spans []span, lo, hi int) bool {
	for _, s := range spans {
		if s.start >= lo && s.end <= hi {
			return true
		}
	}
	return false
}

func validSpan(text string, s span, want string) bool {
	if s.start < 0 || s.end > len(text) || s.start > s.end {
		return false
	}
	return text[s.start:s.end] == want
}

// runeBounds returns the byte offset of every rune start in s, plus len(s).
func runeBounds(s string) []int {
	bounds := make([]int, 0, len(s)+1)
	for i := range s {
		bounds = append(bounds, i)
	}
	return append(bounds, len(s))
}

// runeIndexer converts ascending byte offsets into rune offsets.
type runeIndexer struct {
	text  string
	bytes int
	runes int
}

func (x *runeIndexer) at(off int) int {
	if off < x.bytes {
		x.bytes, x.runes = 0, 0
	}
	x.runes += utf8.RuneCountInString(x.text[x.bytes:off])
	x.bytes = off
	return x.runes
}
