package cvmatch

import "time"

// Algorithm selects the pattern matcher.
type Algorithm string

// Supported algorithms.
const (
	KMP Algorithm = "KMP" // exact, Knuth-Morris-Pratt
	BM  Algorithm = "BM"  // exact, Boyer-Moore
	AC  Algorithm = "AC"  // exact multi-pattern, Aho-Corasick
	LD  Algorithm = "LD"  // approximate, Levenshtein word similarity
)

// Record is a résumé as stored by the host application.
// At least one of CVPath or RawText must be set.
type Record struct {
	ID       int64
	Name     string
	CVPath   string
	RawText  string
	Category string
	Position string
}

// Hit is one ranked résumé.
type Hit struct {
	ApplicantID    int64
	Name           string
	CVPath         string
	Category       string
	Position       string
	TotalMatches   int
	KeywordMatches map[string]int
}

// Result is the outcome of a query. When Error is non-empty Hits is empty.
type Result struct {
	Hits          []Hit
	AlgorithmTime time.Duration
	Scanned       int
	Algorithm     Algorithm
	Threshold     *float64 // set for LD only
	Error         string   // "no keywords", "empty corpus", "cancelled" or "internal error"
}

// OK reports whether the query completed.
func (r *Result) OK() bool { return r.Error == "" }

// CacheStats describes the extracted-text cache.
type CacheStats struct {
	Entries     int
	FailedPaths int
	Bytes       int64
	Truncated   int
}
