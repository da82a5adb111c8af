package algorithm

import "strings"

// Algorithm is the pattern-matching strategy tag. The short tags are the
// stable wire identifiers.
type Algorithm string

// Algorithm constants.
const (
	// KMP is exact single-pattern Knuth–Morris–Pratt.
	KMP Algorithm = "KMP"
	// BM is exact single-pattern Boyer–Moore (bad-character rule).
	BM Algorithm = "BM"
	// AC is exact multi-pattern Aho–Corasick.
	AC Algorithm = "AC"
	// LD is approximate word-level matching by Levenshtein similarity.
	LD Algorithm = "LD"
)

// All lists the supported algorithms in display order.
var All = []Algorithm{KMP, BM, AC, LD}

var displayNames = map[Algorithm]string{
	KMP: "Knuth-Morris-Pratt",
	BM:  "Boyer-Moore",
	AC:  "Aho-Corasick",
	LD:  "Levenshtein Distance",
}

var longNames = map[string]Algorithm{
	"EXACT_SINGLE_KMP": KMP,
	"EXACT_SINGLE_BM":  BM,
	"EXACT_MULTI_AC":   AC,
	"APPROX_WORD_LD":   LD,
}

// IsValid checks if the algorithm is one of the supported values.
func (a Algorithm) IsValid() bool {
	return a == KMP || a == BM || a == AC || a == LD
}

// IsFuzzy reports whether the algorithm takes a similarity threshold.
func (a Algorithm) IsFuzzy() bool { return a == LD }

// DisplayName returns the human-readable name for UIs.
func (a Algorithm) DisplayName() string {
	if n, ok := displayNames[a]; ok {
		return n
	}
	return string(a)
}

// Parse resolves a short tag or a long name, case-insensitively.
// Returns false for anything outside the closed set.
func Parse(s string) (Algorithm, bool) {
	up := strings.ToUpper(strings.TrimSpace(s))
	if a := Algorithm(up); a.IsValid() {
		return a, true
	}
	if a, ok := longNames[up]; ok {
		return a, true
	}
	return "", false
}
