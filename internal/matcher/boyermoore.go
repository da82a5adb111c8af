package matcher

// BoyerMoore is the Boyer–Moore matcher with the bad-character rule only.
// Mismatches shift by max(1, j-last[c]); a full match shifts by one so
// overlapping occurrences are not skipped.
type BoyerMoore struct{}

// Search returns every occurrence of pattern in text.
func (BoyerMoore) Search(text, pattern string) Positions {
	if text == "" || pattern == "" {
		return Positions{}
	}
	return single(pattern, bmFind(text, pattern))
}

// SearchMultiple runs Search for each pattern and merges the results.
func (BoyerMoore) SearchMultiple(text string, patterns []string) Positions {
	return searchEach(text, patterns, bmFind)
}

// lastOccurrence maps every byte to its last index in pattern, or -1.
func lastOccurrence(pattern string) *[256]int {
	var last [256]int
	for i := range last {
		last[i] = -1
	}
	for i := 0; i < len(pattern); i++ {
		last[pattern[i]] = i
	}
	return &last
}

func bmFind(text, pattern string) []int {
	n, m := len(text), len(pattern)
	if m == 0 || m > n {
		return nil
	}
	last := lastOccurrence(pattern)

	var pos []int
	s := 0
	for s <= n-m {
		j := m - 1
		for j >= 0 && pattern[j] == text[s+j] {
			j--
		}
		if j < 0 {
			pos = append(pos, s)
			s++
			continue
		}
		s += max(1, j-last[text[s+j]])
	}
	return pos
}
