package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals that a document identifier does not resolve in the backend.
	ErrNotFound = errors.New("not found")
	// ErrRemoteUnavailable signals that the search backend cannot be reached or timed out.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	// ErrInvalidArgument signals caller misconfiguration, e.g. a collection that is not the configured index.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMalformedHit signals a backend hit without the required metadata mapping.
	ErrMalformedHit = errors.New("malformed hit")
	// ErrUnresolvableHighlight signals a fragment or span that cannot be located in the document text.
	ErrUnresolvableHighlight = errors.New("unresolvable highlight")
)

// CollectionMismatchError wraps ErrInvalidArgument with the offending collection identifiers.
type CollectionMismatchError struct {
	Requested  string
	Configured string
}

func (e *CollectionMismatchError) Error() string {
	return fmt.Sprintf("%s: requested collection %q does not match configured index %q",
		ErrInvalidArgument.Error(), e.Requested, e.Configured)
}

func (e *CollectionMismatchError) Unwrap() error { return ErrInvalidArgument }

// CheckCollection fails fast when the requested collection is not the configured index.
func CheckCollection(requested, configured string) error {
	if requested != configured {
		return &CollectionMismatchError{Requested: requested, Configured: configured}
	}
	return nil
}
