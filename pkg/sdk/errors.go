package extsearch

import "github.com/kailas-cloud/extsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound              = domain.ErrNotFound
	ErrRemoteUnavailable     = domain.ErrRemoteUnavailable
	ErrInvalidArgument       = domain.ErrInvalidArgument
	ErrMalformedHit          = domain.ErrMalformedHit
	ErrUnresolvableHighlight = domain.ErrUnresolvableHighlight
)
