package highlight

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	// anchorBytes is the Bitap pattern size limit of diffmatchpatch (MatchMaxBits).
	anchorBytes = 32
	// anchorThreshold is stricter than the diffmatchpatch default of 0.5.
	anchorThreshold = 0.4
	// windowLead is how far before the anchor the aligned window starts.
	windowLead = 16
)

// alignSpans maps fragment spans into text through a character diff between the
// fragment and the document window it most likely came from. It returns one
// candidate byte range per span, to be validated by the caller, and the window
// anchor. The anchor is -1 when no window resembles the fragment.
func alignSpans(p *plainFragment, text string, from int) ([]span, int) {
	dmp := diffmatchpatch.New()
	dmp.MatchThreshold = anchorThreshold
	dmp.MatchDistance = max(dmp.MatchDistance, len(text))

	anchor := findAnchor(dmp, p.text, text, from)
	if anchor < 0 {
		return nil, -1
	}

	ws := runeStartBefore(text, max(0, anchor-windowLead))
	we := runeStartAfter(text, min(len(text), anchor+len(p.text)+len(p.text)/2+windowLead))
	window := text[ws:we]

	diffs := dmp.DiffMain(p.text, window, false)
	spans := make([]span, len(p.spans))
	for i, s := range p.spans {
		n := s.end - s.start
		b := ws + dmp.DiffXIndex(diffs, s.start)
		if cand := (span{start: b, end: b + n}); validSpan(text, cand, p.spanText(s)) {
			spans[i] = cand
			continue
		}
		e := ws + dmp.DiffXIndex(diffs, s.end)
		spans[i] = span{start: e - n, end: e}
	}
	return spans, anchor
}

// findAnchor locates the fragment head, or failing that its tail, near from.
func findAnchor(dmp *diffmatchpatch.DiffMatchPatch, fragment, text string, from int) int {
	head := fragment[:runeStartBefore(fragment, min(len(fragment), anchorBytes))]
	if head != "" {
		if loc := dmp.MatchMain(text, head, from); loc >= 0 {
			return runeStartBefore(text, loc)
		}
	}

	tail := fragment[runeStartAfter(fragment, max(0, len(fragment)-anchorBytes)):]
	if tail != "" {
		if loc := dmp.MatchMain(text, tail, from); loc >= 0 {
			return runeStartBefore(text, max(0, loc-(len(fragment)-len(tail))))
		}
	}
	return -1
}

// runeStartBefore moves off back to the nearest rune start.
func runeStartBefore(s string, off int) int {
	for off > 0 && off < len(s) && !utf8.RuneStart(s[off]) {
		off--
	}
	return off
}

// runeStartAfter moves off forward to the nearest rune start or len(s).
func runeStartAfter(s string, off int) int {
	for off < len(s) && !utf8.RuneStart(s[off]) {
		off++
	}
	return off
}
