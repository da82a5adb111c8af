package domain

import (
	"errors"
	"fmt"
)

// KeyPrefix is the namespace for every key cvmatch writes to a key-value store.
const KeyPrefix = "cvmatch:"

var (
	// ErrQueryEmpty signals a query with no usable keywords after parsing.
	ErrQueryEmpty = errors.New("no keywords")
	// ErrCorpusEmpty signals that the record provider returned nothing.
	ErrCorpusEmpty = errors.New("empty corpus")
	// ErrCancelled signals cooperative cancellation of a running query.
	ErrCancelled = errors.New("cancelled")
	// ErrInternal signals an unexpected engine failure.
	ErrInternal = errors.New("internal error")

	// ErrInvalidAlgorithm signals an algorithm tag outside the supported set.
	ErrInvalidAlgorithm = errors.New("invalid algorithm")
	// ErrRecordNotFound signals a missing résumé record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrTextUnavailable signals that no plain text could be obtained for a record.
	ErrTextUnavailable = errors.New("text unavailable")
	// ErrUnsupportedDocument signals a document format no decoder handles.
	ErrUnsupportedDocument = errors.New("unsupported document")
)

// ExtractionError wraps ErrTextUnavailable with the document path that failed.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrTextUnavailable.Error(), e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", ErrTextUnavailable.Error(), e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() []error { return []error{ErrTextUnavailable, e.Err} }

// NewExtractionError creates an extraction error for path.
func NewExtractionError(path string, err error) error {
	return &ExtractionError{Path: path, Err: err}
}

// EnvelopeError maps a query-level failure onto the human-readable envelope string.
// Returns "" for nil.
func EnvelopeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrQueryEmpty):
		return ErrQueryEmpty.Error()
	case errors.Is(err, ErrCorpusEmpty):
		return ErrCorpusEmpty.Error()
	case errors.Is(err, ErrCancelled):
		return ErrCancelled.Error()
	default:
		return ErrInternal.Error()
	}
}
