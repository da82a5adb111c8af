package result

import (
	"time"

	"github.com/kailas-cloud/cvmatch/internal/domain/search/algorithm"
)

// Envelope is the outcome of one query: ranked hits plus timing and bookkeeping.
// Results and Error are mutually exclusive in meaning: when Error is set callers
// treat Results as empty, even if a cancelled query carries the hits it had finalized.
type Envelope struct {
	results   []Hit
	elapsed   time.Duration
	scanned   int
	algo      algorithm.Algorithm
	threshold float64
	errMsg    string
}

// NewEnvelope creates a successful envelope. threshold is kept only for LD.
func NewEnvelope(
	results []Hit, elapsed time.Duration, scanned int,
	algo algorithm.Algorithm, threshold float64,
) Envelope {
	if results == nil {
		results = []Hit{}
	}
	return Envelope{
		results:   results,
		elapsed:   elapsed,
		scanned:   scanned,
		algo:      algo,
		threshold: threshold,
	}
}

// Failed creates an envelope carrying only an error string.
func Failed(algo algorithm.Algorithm, threshold float64, errMsg string) Envelope {
	return Envelope{results: []Hit{}, algo: algo, threshold: threshold, errMsg: errMsg}
}

// WithError returns a copy marked with errMsg, keeping whatever results it had.
func (e Envelope) WithError(errMsg string) Envelope {
	e.errMsg = errMsg
	return e
}

// Results returns the ranked hits.
func (e *Envelope) Results() []Hit { return e.results }

// Elapsed returns the time spent in the scan.
func (e *Envelope) Elapsed() time.Duration { return e.elapsed }

// AlgorithmTimeMS returns Elapsed in fractional milliseconds.
func (e *Envelope) AlgorithmTimeMS() float64 {
	return float64(e.elapsed.Nanoseconds()) / float64(time.Millisecond)
}

// ScannedCount returns how many records were visited.
func (e *Envelope) ScannedCount() int { return e.scanned }

// Algorithm returns the algorithm tag.
func (e *Envelope) Algorithm() algorithm.Algorithm { return e.algo }

// Threshold returns the LD threshold and whether it applies.
func (e *Envelope) Threshold() (float64, bool) {
	if !e.algo.IsFuzzy() {
		return 0, false
	}
	return e.threshold, true
}

// Error returns the failure string, or "" on success.
func (e *Envelope) Error() string { return e.errMsg }

// OK reports whether the query completed without error.
func (e *Envelope) OK() bool { return e.errMsg == "" }
