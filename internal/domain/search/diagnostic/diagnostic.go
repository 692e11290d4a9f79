// Package diagnostic collects per-item problems met while assembling results.
// Problems with one hit or one fragment never fail a whole batch; they are
// recorded here instead.
package diagnostic

import (
	"fmt"

	"github.com/kailas-cloud/extsearch/internal/domain"
)

// Kind classifies an issue.
type Kind string

// Issue kinds.
const (
	MalformedHit          Kind = "malformed_hit"
	UnresolvableHighlight Kind = "unresolvable_highlight"
)

// NoFragment marks an issue that concerns a whole hit.
const NoFragment = -1

// Issue is a single recorded problem. It satisfies error and unwraps to the
// matching domain sentinel.
type Issue struct {
	Kind     Kind
	HitID    string
	Fragment int
	// Spans is the number of emphasized spans lost, for unresolvable highlights.
	Spans  int
	Reason string
}

func (i Issue) Error() string {
	if i.Fragment == NoFragment {
		return fmt.Sprintf("%s: hit %q: %s", i.Kind, i.HitID, i.Reason)
	}
	return fmt.Sprintf("%s: hit %q fragment %d: %s", i.Kind, i.HitID, i.Fragment, i.Reason)
}

func (i Issue) Unwrap() error {
	switch i.Kind {
	case MalformedHit:
		return domain.ErrMalformedHit
	case UnresolvableHighlight:
		return domain.ErrUnresolvableHighlight
	default:
		return nil
	}
}

// Report accumulates issues in the order they were met.
// The zero value is ready to use.
type Report struct {
	issues []Issue
}

// Add records an issue.
func (r *Report) Add(i Issue) {
	r.issues = append(r.issues, i)
}

// Issues returns the recorded issues.
func (r *Report) Issues() []Issue { return r.issues }

// Count returns the number of issues of the given kind.
func (r *Report) Count(k Kind) int {
	n := 0
	for _, i := range r.issues {
		if i.Kind == k {
			n++
		}
	}
	return n
}

// Empty reports whether nothing was recorded.
func (r *Report) Empty() bool { return len(r.issues) == 0 }
