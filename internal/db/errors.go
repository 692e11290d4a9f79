package db

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/extsearch/internal/domain"
)

// Sentinel errors for backend operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	// ErrUnavailable marks connection failures, timeouts and server-side errors.
	ErrUnavailable = errors.New("db: backend unavailable")
)

// Op names used for error context. Redis ops are command names,
// Elasticsearch ops are REST endpoints.
const (
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpHGetAll     = "HGETALL"
	OpHSet        = "HSET"
	OpPing        = "PING"

	OpESSearch      = "_search"
	OpESGet         = "GET _doc"
	OpESPut         = "PUT _doc"
	OpESCreateIndex = "PUT index"
	OpESDropIndex   = "DELETE index"
	OpESIndexExists = "HEAD index"

	OpBleveSearch = "bleve.Search"
	OpBleveIndex  = "bleve.Index"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Unavailable wraps err as a backend availability failure for op.
func Unavailable(op string, err error) error {
	return &Error{Op: op, Err: errors.Join(ErrUnavailable, err)}
}

// DomainError translates backend errors into domain sentinels, keeping the cause.
// Errors without a domain meaning are returned unchanged.
func DomainError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnavailable):
		return fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	case errors.Is(err, ErrKeyNotFound), errors.Is(err, ErrIndexNotFound):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	default:
		return err
	}
}
