package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ellipses are the truncation marks backends put at fragment boundaries.
var ellipses = []string{"...", "…"}

// span is a byte range of an emphasized run within a plain fragment.
type span struct {
	start, end int
}

// plainFragment is a fragment with its markers stripped.
type plainFragment struct {
	text   string
	spans  []span
	broken int // spans lost to marker parse failures or boundary trimming
}

// newPlainFragment concatenates tokens into marker-free text and records emphasized ranges.
func newPlainFragment(tokens []Token) plainFragment {
	var (
		b strings.Builder
		p plainFragment
	)
	for _, tok := range tokens {
		start := b.Len()
		b.WriteString(tok.Text)
		switch tok.Kind {
		case Emphasis:
			p.spans = append(p.spans, span{start: start, end: b.Len()})
		case Broken:
			p.broken++
		}
	}
	p.text = b.String()
	return p
}

// spanText returns the text of s.
func (p *plainFragment) spanText(s span) string {
	return p.text[s.start:s.end]
}

// stripBoundaries removes leading and trailing ellipses and whitespace.
// Spans reaching into a removed region are clipped to what remains.
func (p *plainFragment) stripBoundaries() {
	lo, hi := 0, len(p.text)
	for lo < hi {
		if n := ellipsisPrefix(p.text[lo:hi]); n > 0 {
			lo += n
			continue
		}
		r, size := utf8.DecodeRuneInString(p.text[lo:hi])
		if !unicode.IsSpace(r) {
			break
		}
		lo += size
	}
	for hi > lo {
		if n := ellipsisSuffix(p.text[lo:hi]); n > 0 {
			hi -= n
			continue
		}
		r, size := utf8.DecodeLastRuneInString(p.text[lo:hi])
		if !unicode.IsSpace(r) {
			break
		}
		hi -= size
	}
	p.narrow(lo, hi, true)
}

// window narrows the fragment to [lo, hi), rebasing spans and dropping those
// not fully inside.
func (p *plainFragment) window(lo, hi int) {
	p.narrow(lo, hi, false)
}

// narrow cuts the fragment to [lo, hi). With clip set, a span crossing a bound
// keeps its inner part; otherwise it is dropped. Empty spans are dropped.
func (p *plainFragment) narrow(lo, hi int, clip bool) {
	if lo == 0 && hi == len(p.text) {
		return
	}
	kept := p.spans[:0:0]
	for _, s := range p.spans {
		inside := s.start >= lo && s.end <= hi
		if clip {
			s = span{start: max(s.start, lo), end: min(s.end, hi)}
			inside = s.start < s.end
		}
		if inside {
			kept = append(kept, span{start: s.start - lo, end: s.end - lo})
		} else {
			p.broken++
		}
	}
	p.text = p.text[lo:hi]
	p.spans = kept
}

func ellipsisPrefix(s string) int {
	for _, e := range ellipses {
		if strings.HasPrefix(s, e) {
			return len(e)
		}
	}
	return 0
}

func ellipsisSuffix(s string) int {
	for _, e := range ellipses {
		if strings.HasSuffix(s, e) {
			return len(e)
		}
	}
	return 0
}
