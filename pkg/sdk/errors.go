package cvmatch

import "github.com/kailas-cloud/cvmatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidAlgorithm    = domain.ErrInvalidAlgorithm
	ErrRecordNotFound      = domain.ErrRecordNotFound
	ErrTextUnavailable     = domain.ErrTextUnavailable
	ErrUnsupportedDocument = domain.ErrUnsupportedDocument
)
