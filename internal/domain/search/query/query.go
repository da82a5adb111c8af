package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/cvmatch/internal/domain"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/algorithm"
)

// DefaultThreshold is the LD similarity threshold used when the raw query has none.
const DefaultThreshold = 0.7

const (
	keywordSeparator = ","
	thresholdToken   = "|threshold="
)

// Query is a parsed, validated keyword query.
type Query struct {
	keywords  []string
	algo      algorithm.Algorithm
	topN      int
	threshold float64
}

// Parse splits raw on commas, trims and lower-cases every keyword, drops empties
// and collapses case-insensitive duplicates (first occurrence wins, input order kept).
// A trailing "|threshold=<float>" is peeled off and clamped to [0, 1]; an unparsable
// value falls back to DefaultThreshold. topN <= 0 is kept as is: it yields no results.
func Parse(raw string, a algorithm.Algorithm, topN int) (Query, error) {
	if !a.IsValid() {
		return Query{}, fmt.Errorf("%w: %q", domain.ErrInvalidAlgorithm, a)
	}

	body, threshold := splitThreshold(raw)

	parts := strings.Split(body, keywordSeparator)
	keywords := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		kw := strings.ToLower(strings.TrimSpace(p))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}
	if len(keywords) == 0 {
		return Query{}, domain.ErrQueryEmpty
	}

	return Query{
		keywords:  keywords,
		algo:      a,
		topN:      topN,
		threshold: threshold,
	}, nil
}

// splitThreshold removes the threshold suffix from raw and returns the remaining
// keyword text with the clamped threshold.
func splitThreshold(raw string) (string, float64) {
	idx := strings.Index(raw, thresholdToken)
	if idx < 0 {
		return raw, DefaultThreshold
	}
	value := strings.TrimSpace(raw[idx+len(thresholdToken):])
	t, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(t) {
		return raw[:idx], DefaultThreshold
	}
	return raw[:idx], ClampThreshold(t)
}

// ClampThreshold pins t to [0, 1].
func ClampThreshold(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

// Keywords returns the normalized keywords in input order.
func (q *Query) Keywords() []string { return q.keywords }

// Algorithm returns the matching strategy.
func (q *Query) Algorithm() algorithm.Algorithm { return q.algo }

// TopN returns the result cap.
func (q *Query) TopN() int { return q.topN }

// Threshold returns the LD similarity threshold.
func (q *Query) Threshold() float64 { return q.threshold }
