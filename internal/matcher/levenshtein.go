package matcher

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Word is a whitespace-delimited token of a text and its offset.
type Word struct {
	Text   string
	Offset int
}

// SplitWords splits text on whitespace. A word's offset is the sum of the lengths
// of the words before it plus one separator per gap, so runs of whitespace count
// as a single separator.
func SplitWords(text string) []Word {
	fields := strings.Fields(text)
	words := make([]Word, len(fields))
	off := 0
	for i, f := range fields {
		words[i] = Word{Text: f, Offset: off}
		off += len(f) + 1
	}
	return words
}

// Tokenizer turns a text into the words a Fuzzy matcher scores.
type Tokenizer func(text string) []Word

// SplitWordsTrimPunct splits like SplitWords, then trims leading and trailing
// punctuation from each word ("golang," -> "golang"). Offsets move past the
// trimmed prefix. Words that are all punctuation are dropped.
func SplitWordsTrimPunct(text string) []Word {
	words := SplitWords(text)
	out := words[:0]
	for _, w := range words {
		trimmed := strings.TrimLeftFunc(w.Text, unicode.IsPunct)
		lead := len(w.Text) - len(trimmed)
		trimmed = strings.TrimRightFunc(trimmed, unicode.IsPunct)
		if trimmed == "" {
			continue
		}
		out = append(out, Word{Text: trimmed, Offset: w.Offset + lead})
	}
	return out
}

// Distance returns the Levenshtein edit distance between a and b with unit costs,
// measured in runes. Uses two rows sized by the shorter string.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity returns 1 - Distance(a, b)/max(|a|, |b|), in [0, 1].
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	return similarityFrom(Distance(a, b), a, b)
}

func similarityFrom(d int, a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(d)/float64(longest)
}

// WordScan is the outcome of scoring one keyword against every word of a text.
type WordScan struct {
	// Positions are the offsets of words whose similarity reaches the threshold.
	Positions []int
	// BestWord is the highest-scoring word; the first one wins ties.
	BestWord  string
	BestScore float64
}

// DisplayKey renders the tally key for a fuzzy keyword: "kw (~best, 0.83)".
func DisplayKey(keyword string, s WordScan) string {
	return fmt.Sprintf("%s (~%s, %.2f)", keyword, s.BestWord, s.BestScore)
}

type wordPair struct{ a, b string }

// Fuzzy matches keywords against whole words by Levenshtein similarity.
// It memoizes distances across calls; Reset clears the memo and must be
// called when the query that owns it ends. Safe for concurrent use.
type Fuzzy struct {
	threshold float64
	tokenize  Tokenizer

	mu   sync.Mutex
	memo map[wordPair]int
}

// FuzzyOption configures a Fuzzy matcher.
type FuzzyOption func(*Fuzzy)

// WithTokenizer replaces the default whitespace tokenizer.
func WithTokenizer(t Tokenizer) FuzzyOption {
	return func(f *Fuzzy) {
		if t != nil {
			f.tokenize = t
		}
	}
}

// NewFuzzy creates a fuzzy matcher accepting words with similarity >= threshold.
// Words are split on whitespace only unless WithTokenizer says otherwise.
func NewFuzzy(threshold float64, opts ...FuzzyOption) *Fuzzy {
	f := &Fuzzy{threshold: threshold, tokenize: SplitWords, memo: make(map[wordPair]int)}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Words tokenizes text with the configured tokenizer.
func (f *Fuzzy) Words(text string) []Word {
	return f.tokenize(text)
}

// Threshold returns the acceptance threshold.
func (f *Fuzzy) Threshold() float64 { return f.threshold }

// Reset drops every memoized distance.
func (f *Fuzzy) Reset() {
	f.mu.Lock()
	f.memo = make(map[wordPair]int)
	f.mu.Unlock()
}

// MemoSize returns the number of memoized word pairs.
func (f *Fuzzy) MemoSize() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.memo)
}

func (f *Fuzzy) distance(a, b string) int {
	key := wordPair{a, b}
	if b < a {
		key = wordPair{b, a}
	}
	f.mu.Lock()
	d, ok := f.memo[key]
	f.mu.Unlock()
	if ok {
		return d
	}
	d = Distance(a, b)
	f.mu.Lock()
	f.memo[key] = d
	f.mu.Unlock()
	return d
}

// Scan scores keyword against every word.
func (f *Fuzzy) Scan(words []Word, keyword string) WordScan {
	var s WordScan
	if keyword == "" {
		return s
	}
	best := -1.0
	for _, w := range words {
		score := similarityFrom(f.distance(keyword, w.Text), keyword, w.Text)
		if score > best {
			best = score
			s.BestWord = w.Text
			s.BestScore = score
		}
		if score >= f.threshold {
			s.Positions = append(s.Positions, w.Offset)
		}
	}
	return s
}

// Search returns the offsets of the words of text similar to pattern.
func (f *Fuzzy) Search(text, pattern string) Positions {
	return f.SearchMultiple(text, []string{pattern})
}

// SearchMultiple scores every pattern against the words of text.
func (f *Fuzzy) SearchMultiple(text string, patterns []string) Positions {
	out := Positions{}
	if text == "" {
		return out
	}
	words := f.Words(text)
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if _, done := out[p]; done {
			continue
		}
		if s := f.Scan(words, p); len(s.Positions) > 0 {
			out[p] = s.Positions
		}
	}
	return out
}
