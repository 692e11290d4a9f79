package highlight

import (
	"strings"
	"unicode/utf8"
)

// Kind classifies a fragment token.
type Kind int

const (
	// Plain is unemphasized fragment text.
	Plain Kind = iota
	// Emphasis is text enclosed by a well-formed marker pair.
	Emphasis
	// Broken is text of a span whose markers are unbalanced or out of order.
	// Its text still belongs to the fragment but it yields no highlight.
	Broken
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Emphasis:
		return "emphasis"
	case Broken:
		return "broken"
	default:
		return "unknown"
	}
}

// Token is a run of fragment text with its emphasis kind. Markers never appear in Text.
type Token struct {
	Text string
	Kind Kind
}

// Tokenizer splits a backend fragment into tokens.
type Tokenizer interface {
	Tokenize(fragment string) []Token
}

// MarkerTokenizer tokenizes fragments that wrap emphasized spans in a fixed
// open/close marker pair, such as "<em>" and "</em>".
type MarkerTokenizer struct {
	Open  string
	Close string
}

var _ Tokenizer = MarkerTokenizer{}

// NewMarkerTokenizer creates a tokenizer for the given marker pair.
func NewMarkerTokenizer(open, closing string) MarkerTokenizer {
	return MarkerTokenizer{Open: open, Close: closing}
}

// Tokenize implements Tokenizer.
//
// An open marker inside an open span, or a span still open at the end of the
// fragment, produces a Broken token. A close marker without a matching open
// marker produces an empty Broken token so the failed span is still counted.
func (t MarkerTokenizer) Tokenize(fragment string) []Token {
	var (
		tokens []Token
		buf    strings.Builder
		inside bool
		broken bool
	)

	flush := func(kind Kind) {
		if buf.Len() > 0 {
			tokens = append(tokens, Token{Text: buf.String(), Kind: kind})
			buf.Reset()
		}
	}

	rest := fragment
	for rest != "" {
		switch {
		case inside && t.Close != "" && strings.HasPrefix(rest, t.Close):
			if broken {
				if buf.Len() == 0 {
					tokens = append(tokens, Token{Kind: Broken})
				}
				flush(Broken)
			} else {
				flush(Emphasis)
			}
			inside, broken = false, false
			rest = rest[len(t.Close):]

		case t.Open != "" && strings.HasPrefix(rest, t.Open):
			if inside {
				broken = true
			} else {
				flush(Plain)
				inside = true
			}
			rest = rest[len(t.Open):]

		case t.Close != "" && strings.HasPrefix(rest, t.Close):
			flush(Plain)
			tokens = append(tokens, Token{Kind: Broken})
			rest = rest[len(t.Close):]

		default:
			_, size := utf8.DecodeRuneInString(rest)
			buf.WriteString(rest[:size])
			rest = rest[size:]
		}
	}

	if inside {
		if buf.Len() == 0 {
			tokens = append(tokens, Token{Kind: Broken})
		}
		flush(Broken)
	} else {
		flush(Plain)
	}
	return tokens
}
