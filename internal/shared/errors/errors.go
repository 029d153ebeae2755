package errors

import (
	"errors"
	"fmt"
)

var (
	ErrMissingURL        = errors.New("missing url")
	ErrMissingXToken     = errors.New("X_BEARER_TOKEN (or TWITTER_BEARER_TOKEN) is required for social sources")
	ErrRefreshInProgress = errors.New("refresh already in progress")
	ErrSourceNotFound    = errors.New("source not found")
	ErrInvalidSource     = errors.New("invalid source")
	ErrResponseTooLarge  = errors.New("upstream response exceeds size limit")
)

// SourceError attributes an adapter failure to the source that produced it.
type SourceError struct {
	SourceID   string
	SourceName string
	Err        error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s fetch failed: %v", e.SourceName, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError wraps err with the source identity. A nil err stays nil.
func NewSourceError(sourceID, sourceName string, err error) error {
	if err == nil {
		return nil
	}
	return &SourceError{SourceID: sourceID, SourceName: sourceName, Err: err}
}

// Is, As and New re-export the standard helpers so callers importing this
// package under the name errors keep access to them.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func New(text string) error { return errors.New(text) }
