package search

import (
	"github.com/kailas-cloud/cvmatch/internal/domain/search/algorithm"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/query"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/result"
	"github.com/kailas-cloud/cvmatch/internal/matcher"
)

// scan holds the per-query matcher state. The automaton and the fuzzy memo
// live exactly as long as one query.
type scan struct {
	algo      algorithm.Algorithm
	keywords  []string
	automaton *matcher.Automaton
	fuzzy     *matcher.Fuzzy
}

func newScan(q *query.Query) *scan {
	sc := &scan{algo: q.Algorithm(), keywords: q.Keywords()}
	switch sc.algo {
	case algorithm.AC:
		sc.automaton = matcher.NewAutomaton(sc.keywords)
	case algorithm.LD:
		sc.fuzzy = matcher.NewFuzzy(q.Threshold())
	}
	return sc
}

func (sc *scan) close() {
	if sc.fuzzy != nil {
		sc.fuzzy.Reset()
	}
}

// tally counts keyword occurrences in text, which must already be lower-cased.
func (sc *scan) tally(text string) result.Tally {
	t := result.Tally{}
	switch sc.algo {
	case algorithm.KMP:
		for _, kw := range sc.keywords {
			t.Add(kw, matcher.KMP{}.Search(text, kw).Count(kw))
		}
	case algorithm.BM:
		for _, kw := range sc.keywords {
			t.Add(kw, matcher.BoyerMoore{}.Search(text, kw).Count(kw))
		}
	case algorithm.AC:
		// Keywords are lower-cased by the parser, so automaton output keys
		// are the keywords themselves.
		pos := sc.automaton.Scan(text)
		for _, kw := range sc.keywords {
			t.Add(kw, pos.Count(kw))
		}
	case algorithm.LD:
		words := sc.fuzzy.Words(text)
		for _, kw := range sc.keywords {
			ws := sc.fuzzy.Scan(words, kw)
			if len(ws.Positions) > 0 {
				t.Add(matcher.DisplayKey(kw, ws), len(ws.Positions))
			}
		}
	}
	return t
}
