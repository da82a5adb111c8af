package matcher

// KMP is the Knuth–Morris–Pratt matcher. O(len(text)+len(pattern)) time,
// O(len(pattern)) space; the failure table is rebuilt per pattern.
type KMP struct{}

// Search returns every occurrence of pattern in text.
func (KMP) Search(text, pattern string) Positions {
	if text == "" || pattern == "" {
		return Positions{}
	}
	return single(pattern, kmpFind(text, pattern))
}

// SearchMultiple runs Search for each pattern and merges the results.
func (KMP) SearchMultiple(text string, patterns []string) Positions {
	return searchEach(text, patterns, kmpFind)
}

// lpsTable returns, for each prefix pattern[:i+1], the length of its longest proper
// prefix that is also a suffix.
func lpsTable(pattern string) []int {
	lps := make([]int, len(pattern))
	k := 0
	for i := 1; i < len(pattern); i++ {
		for k > 0 && pattern[i] != pattern[k] {
			k = lps[k-1]
		}
		if pattern[i] == pattern[k] {
			k++
		}
		lps[i] = k
	}
	return lps
}

func kmpFind(text, pattern string) []int {
	m := len(pattern)
	if m == 0 || m > len(text) {
		return nil
	}
	lps := lpsTable(pattern)

	var pos []int
	j := 0
	for i := 0; i < len(text); i++ {
		for j > 0 && text[i] != pattern[j] {
			j = lps[j-1]
		}
		if text[i] == pattern[j] {
			j++
		}
		if j == m {
			pos = append(pos, i-m+1)
			// Fall back instead of resetting so overlapping occurrences are found.
			j = lps[m-1]
		}
	}
	return pos
}
