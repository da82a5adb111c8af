// Package matcher implements the exact and approximate pattern matchers used to
// score résumés: Knuth–Morris–Pratt, Boyer–Moore, Aho–Corasick and word-level
// Levenshtein similarity.
//
// Every matcher reports byte offsets of occurrence starts, overlapping occurrences
// included, in ascending order per pattern. Matching is case-sensitive at the byte
// level; callers lower-case text and patterns before calling in.
// Empty text or empty patterns produce an empty map, never an error.
package matcher

// Positions maps each pattern to the ascending start offsets of its occurrences.
// Patterns without occurrences are absent.
type Positions map[string][]int

// Count returns the number of occurrences recorded for pattern.
func (p Positions) Count(pattern string) int { return len(p[pattern]) }

// searchEach runs a single-pattern search for every distinct non-empty pattern and
// merges the results.
func searchEach(text string, patterns []string, find func(text, pattern string) []int) Positions {
	out := Positions{}
	if text == "" {
		return out
	}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if _, done := out[p]; done {
			continue
		}
		if pos := find(text, p); len(pos) > 0 {
			out[p] = pos
		}
	}
	return out
}

func single(pattern string, pos []int) Positions {
	if len(pos) == 0 {
		return Positions{}
	}
	return Positions{pattern: pos}
}
