package hit

// RawHit is one ranked entry as returned by the search backend, before highlight
// resolution.
type RawHit struct {
	ID string
	// Score is nil when the backend did not report one (e.g. randomized ordering).
	Score *float64
	// Highlights maps a field name to its fragments in backend order.
	Highlights map[string][]string
	// Metadata is nil when the hit carries no metadata mapping at all.
	Metadata map[string]string
	// Text is the full document text when the hit payload embeds it.
	Text    string
	HasText bool
}

// Fragments returns the fragments reported for field.
func (h RawHit) Fragments(field string) []string {
	return h.Highlights[field]
}

// WithText returns a copy of the hit carrying the full document text.
func (h RawHit) WithText(text string) RawHit {
	h.Text = text
	h.HasText = true
	return h
}
