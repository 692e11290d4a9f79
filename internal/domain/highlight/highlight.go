// Package highlight recovers document offsets of emphasized terms from search
// backend highlight fragments.
//
// Backends report matches as short, possibly truncated excerpts with inline
// emphasis markers and no offsets. A Resolver strips the markers, locates the
// excerpt inside the original text and translates every emphasized span into
// the text's coordinate space. Offsets are rune (code point) indices.
package highlight

// Highlight is an emphasized span resolved against the original document text.
// Begin and End are half-open rune offsets; Text equals the original runes in [Begin, End).
type Highlight struct {
	Begin int
	End   int
	Text  string
}

// Len returns the span length in runes.
func (h Highlight) Len() int { return h.End - h.Begin }

// Outcome is the result of resolving one fragment.
type Outcome struct {
	Highlights []Highlight
	// Located reports whether the fragment text was found in the document.
	Located bool
	// Dropped counts emphasized spans that could not be resolved.
	Dropped int
}

// Resolve resolves a single fragment delimited by the open/close marker pair against
// original with the default options.
func Resolve(fragment, original, open, closing string) []Highlight {
	return NewResolver(NewMarkerTokenizer(open, closing), DefaultOptions()).Resolve(fragment, original)
}
