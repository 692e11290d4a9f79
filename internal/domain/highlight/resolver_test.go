package highlight

import (
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

const fox = "The quick brown fox jumps over the lazy dog"

func emResolver(opts Options) *Resolver {
	return NewResolver(NewMarkerTokenizer("<em>", "</em>"), opts)
}

func TestResolve_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fragment string
		want     []Highlight
	}{
		{
			name:     "simple",
			text:     fox,
			fragment: "quick <em>brown</em> fox",
			want:     []Highlight{{Begin: 10, End: 15, Text: "brown"}},
		},
		{
			name:     "two spans",
			text:     fox,
			fragment: "<em>quick</em> brown <em>fox</em>",
			want: []Highlight{
				{Begin: 4, End: 9, Text: "quick"},
				{Begin: 16, End: 19, Text: "fox"},
			},
		},
		{
			name:     "unicode ellipsis",
			text:     fox,
			fragment: "…the <em>lazy</em> dog",
			want:     []Highlight{{Begin: 35, End: 39, Text: "lazy"}},
		},
		{
			name:     "ascii ellipsis on both sides",
			text:     fox,
			fragment: "... quick <em>brown</em> fox ...",
			want:     []Highlight{{Begin: 10, End: 15, Text: "brown"}},
		},
		{
			name:     "non-ascii rune offsets",
			text:     "Größe über alles: Straße und Größe",
			fragment: "und <em>Größe</em>",
			want:     []Highlight{{Begin: 29, End: 34, Text: "Größe"}},
		},
		{
			name:     "whole fragment emphasized",
			text:     fox,
			fragment: "<em>dog</em>",
			want:     []Highlight{{Begin: 40, End: 43, Text: "dog"}},
		},
		{
			name:     "span starts on boundary whitespace",
			text:     "The quick brown fox jumps",
			fragment: "<em> fox</em> jumps",
			want:     []Highlight{{Begin: 15, End: 19, Text: " fox"}},
		},
		{
			name:     "span ends on boundary whitespace",
			text:     "The quick brown fox jumps",
			fragment: "<em>quick </em>",
			want:     []Highlight{{Begin: 4, End: 10, Text: "quick "}},
		},
		{
			name:     "span clipped by ellipsis stripping",
			text:     fox,
			fragment: "…<em> lazy</em> dog",
			want:     []Highlight{{Begin: 35, End: 39, Text: "lazy"}},
		},
		{
			name:     "case differs from document",
			text:     fox,
			fragment: "<em>Quick</em> brown",
			want:     nil,
		},
		{
			name:     "not in document",
			text:     fox,
			fragment: "a <em>zebra</em> crossing",
			want:     nil,
		},
	}

	r := emResolver(DefaultOptions())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Resolve(tc.fragment, tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Resolve(%q) = %+v, want %+v", tc.fragment, got, tc.want)
			}
		})
	}
}

func TestResolve_PackageLevel(t *testing.T) {
	got := Resolve("quick <em>brown</em> fox", fox, "<em>", "</em>")
	want := []Highlight{{Begin: 10, End: 15, Text: "brown"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestResolve_CustomMarkers(t *testing.T) {
	got := Resolve("quick \x1b[43mbrown\x1b[0m fox", fox, "\x1b[43m", "\x1b[0m")
	want := []Highlight{{Begin: 10, End: 15, Text: "brown"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCursor_RepeatedPhrase(t *testing.T) {
	text := "cat sat. cat ran."
	c := emResolver(DefaultOptions()).NewCursor()

	first := c.Resolve("<em>cat</em>", text)
	second := c.Resolve("<em>cat</em>", text)

	if len(first.Highlights) != 1 || first.Highlights[0].Begin != 0 {
		t.Fatalf("first fragment: got %+v, want begin 0", first.Highlights)
	}
	if len(second.Highlights) != 1 || second.Highlights[0].Begin != 9 {
		t.Fatalf("second fragment: got %+v, want begin 9", second.Highlights)
	}
}

func TestCursor_Monotonic(t *testing.T) {
	text := strings.Repeat("echo. ", 6)
	c := emResolver(DefaultOptions()).NewCursor()

	prev := -1
	for i := range 6 {
		out := c.Resolve("<em>echo</em>.", text)
		if len(out.Highlights) != 1 {
			t.Fatalf("fragment %d: expected 1 highlight, got %+v", i, out.Highlights)
		}
		begin := out.Highlights[0].Begin
		if begin <= prev {
			t.Fatalf("fragment %d: begin %d did not advance past %d", i, begin, prev)
		}
		if begin != i*6 {
			t.Errorf("fragment %d: begin = %d, want %d", i, begin, i*6)
		}
		prev = begin
	}
}

func TestCursor_FallsBackToEarlierOccurrence(t *testing.T) {
	c := emResolver(DefaultOptions()).NewCursor()

	if out := c.Resolve("the <em>lazy</em> dog", fox); len(out.Highlights) != 1 {
		t.Fatalf("expected lazy to resolve, got %+v", out)
	}
	out := c.Resolve("<em>quick</em> brown", fox)
	if len(out.Highlights) != 1 || out.Highlights[0].Begin != 4 {
		t.Fatalf("expected quick at 4, got %+v", out.Highlights)
	}
	// "the lazy dog" starts at byte 31.
	if c.pos != 32 {
		t.Errorf("cursor = %d, want 32", c.pos)
	}
}

func TestCursor_MoreFragmentsThanOccurrences(t *testing.T) {
	const text = "cat sat. cat ran."
	c := emResolver(DefaultOptions()).NewCursor()

	var begins []int
	for range 3 {
		out := c.Resolve("<em>cat</em>", text)
		if len(out.Highlights) != 1 {
			t.Fatalf("expected one highlight, got %+v", out)
		}
		begins = append(begins, out.Highlights[0].Begin)
	}
	if want := []int{0, 9, 0}; !reflect.DeepEqual(begins, want) {
		t.Errorf("begins = %v, want %v", begins, want)
	}
	if c.pos != 10 {
		t.Errorf("cursor = %d, want 10", c.pos)
	}
}

func TestCursor_Outcome(t *testing.T) {
	tests := []struct {
		name        string
		fragment    string
		wantLocated bool
		wantDropped int
		wantCount   int
	}{
		{"resolved", "quick <em>brown</em> fox", true, 0, 1},
		{"unclosed span", "quick <em>brown fox", true, 1, 0},
		{"stray close", "quick brown</em> fox", true, 1, 0},
		{"one good one unclosed", "<em>quick</em> brown <em>fox", true, 1, 1},
		{"missing fragment", "<em>zebra</em>", false, 1, 0},
		{"no markers", "brown fox", true, 0, 0},
	}

	r := emResolver(DefaultOptions())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := r.NewCursor().Resolve(tc.fragment, fox)
			if out.Located != tc.wantLocated {
				t.Errorf("Located = %v, want %v", out.Located, tc.wantLocated)
			}
			if out.Dropped != tc.wantDropped {
				t.Errorf("Dropped = %d, want %d", out.Dropped, tc.wantDropped)
			}
			if len(out.Highlights) != tc.wantCount {
				t.Errorf("got %d highlights, want %d", len(out.Highlights), tc.wantCount)
			}
		})
	}
}

func TestResolve_TrimFallback(t *testing.T) {
	r := emResolver(DefaultOptions())

	t.Run("trailing divergence", func(t *testing.T) {
		got := r.Resolve("quick <em>brown</em> fox leaps", fox)
		want := []Highlight{{Begin: 10, End: 15, Text: "brown"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("leading divergence", func(t *testing.T) {
		got := r.Resolve("hops quick <em>brown</em>", fox)
		want := []Highlight{{Begin: 10, End: 15, Text: "brown"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("span cut by trim is dropped", func(t *testing.T) {
		out := r.NewCursor().Resolve("quick <em>brown</em> fox <em>leaps</em>", fox)
		if len(out.Highlights) != 1 || out.Highlights[0].Text != "brown" {
			t.Fatalf("expected only brown, got %+v", out.Highlights)
		}
		if out.Dropped != 1 {
			t.Errorf("Dropped = %d, want 1", out.Dropped)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		noTrim := emResolver(Options{Strategy: StrategyExact})
		if got := noTrim.Resolve("quick <em>brown</em> fox leaps", fox); len(got) != 0 {
			t.Errorf("expected no highlights without trimming, got %+v", got)
		}
	})
}

func TestResolve_AlignedStrategy(t *testing.T) {
	text := "The quick  brown\n fox jumps"
	fragment := "quick <em>brown</em> fox"

	if got := emResolver(DefaultOptions()).Resolve(fragment, text); len(got) != 0 {
		t.Fatalf("exact strategy must not guess, got %+v", got)
	}

	aligned := emResolver(Options{Strategy: StrategyAligned, MaxTrim: DefaultMaxTrim})
	got := aligned.Resolve(fragment, text)
	want := []Highlight{{Begin: 11, End: 16, Text: "brown"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("aligned: got %+v, want %+v", got, want)
	}
}

func TestResolve_AlignedStrategyNoWindow(t *testing.T) {
	aligned := emResolver(Options{Strategy: StrategyAligned})
	out := aligned.NewCursor().Resolve("<em>zebra</em> crossing the savannah", fox)
	if len(out.Highlights) != 0 || out.Dropped != 1 {
		t.Errorf("expected the span to be dropped, got %+v", out)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	r := emResolver(DefaultOptions())
	fragments := []string{
		"quick <em>brown</em> fox",
		"…the <em>lazy</em> dog",
		"<em>quick</em> brown <em>fox",
	}
	for _, f := range fragments {
		a := r.Resolve(f, fox)
		b := r.Resolve(f, fox)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Resolve(%q) not idempotent: %+v vs %+v", f, a, b)
		}
	}
}

// TestResolve_RoundTrip marks random subranges of random substrings and checks
// that every marked range comes back with document offsets.
func TestResolve_RoundTrip(t *testing.T) {
	words := make([]string, 60)
	for i := range words {
		words[i] = fmt.Sprintf("wörd%d", i)
	}
	text := strings.Join(words, " ")
	runes := []rune(text)
	r := emResolver(DefaultOptions())
	rng := rand.New(rand.NewSource(7))

	for iter := range 200 {
		first := rng.Intn(len(words))
		last := first + rng.Intn(min(8, len(words)-first))
		prefix := strings.Join(words[:first], " ")
		if first > 0 {
			prefix += " "
		}
		s := strings.Join(words[first:last+1], " ")
		// Some substrings begin or end on the separating whitespace.
		if first > 0 && rng.Intn(3) == 0 {
			prefix = strings.TrimSuffix(prefix, " ")
			s = " " + s
		}
		if last < len(words)-1 && rng.Intn(3) == 0 {
			s += " "
		}
		base := utf8.RuneCountInString(prefix)
		sub := []rune(s)

		var (
			b    strings.Builder
			want []Highlight
			pos  int
		)
		for pos < len(sub) {
			start := pos + rng.Intn(len(sub)-pos)
			end := start + 1 + rng.Intn(min(6, len(sub)-start))
			b.WriteString(string(sub[pos:start]))
			b.WriteString("<em>" + string(sub[start:end]) + "</em>")
			want = append(want, Highlight{
				Begin: base + start,
				End:   base + end,
				Text:  string(runes[base+start : base+end]),
			})
			pos = end
			if rng.Intn(3) == 0 {
				break
			}
		}
		b.WriteString(string(sub[pos:]))

		got := r.Resolve(b.String(), text)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("iteration %d: Resolve(%q)\n got  %+v\n want %+v", iter, b.String(), got, want)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"", StrategyExact, false},
		{"exact", StrategyExact, false},
		{"aligned", StrategyAligned, false},
		{"fuzzy", "", true},
	}
	for _, tc := range tests {
		got, err := ParseStrategy(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseStrategy(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseStrategy(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHighlight_Len(t *testing.T) {
	h := Highlight{Begin: 3, End: 8}
	if h.Len() != 5 {
		t.Errorf("Len() = %d, want 5", h.Len())
	}
}
