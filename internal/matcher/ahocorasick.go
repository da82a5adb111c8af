package matcher

// acNode is a trie state. Nodes live in a flat slice and refer to each other by
// index, so failure links never form pointer cycles.
type acNode struct {
	next map[byte]int
	fail int
	// out holds indices into Automaton.patterns: the node's own pattern, if any,
	// followed by everything reachable through the failure chain.
	out []int
}

// Automaton is a compiled Aho–Corasick automaton over a fixed pattern set.
// Building is O(Σ|patterns|); scanning is a single pass,
// O(len(text) + matches). An Automaton is read-only after construction.
type Automaton struct {
	nodes    []acNode
	patterns []string
}

// NewAutomaton builds an automaton. Empty and duplicate patterns are skipped.
func NewAutomaton(patterns []string) *Automaton {
	a := &Automaton{nodes: []acNode{{next: make(map[byte]int)}}}
	seen := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		a.insert(p, len(a.patterns))
		a.patterns = append(a.patterns, p)
	}
	a.link()
	return a
}

func (a *Automaton) insert(p string, idx int) {
	cur := 0
	for i := 0; i < len(p); i++ {
		c := p[i]
		nxt, ok := a.nodes[cur].next[c]
		if !ok {
			a.nodes = append(a.nodes, acNode{next: make(map[byte]int)})
			nxt = len(a.nodes) - 1
			a.nodes[cur].next[c] = nxt
		}
		cur = nxt
	}
	a.nodes[cur].out = append(a.nodes[cur].out, idx)
}

// link computes failure links breadth-first and merges output lists along them.
// BFS order guarantees a node's failure target is finished before the node itself.
func (a *Automaton) link() {
	queue := make([]int, 0, len(a.nodes))
	for _, child := range a.nodes[0].next {
		a.nodes[child].fail = 0
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for c, v := range a.nodes[u].next {
			f := a.nodes[u].fail
			for f != 0 {
				if _, ok := a.nodes[f].next[c]; ok {
					break
				}
				f = a.nodes[f].fail
			}
			if t, ok := a.nodes[f].next[c]; ok && t != v {
				a.nodes[v].fail = t
			} else {
				a.nodes[v].fail = 0
			}
			if inherited := a.nodes[a.nodes[v].fail].out; len(inherited) > 0 {
				a.nodes[v].out = append(a.nodes[v].out, inherited...)
			}
			queue = append(queue, v)
		}
	}
}

// Patterns returns the distinct non-empty patterns the automaton was built from.
func (a *Automaton) Patterns() []string { return a.patterns }

// Scan walks text once and reports every pattern occurrence.
func (a *Automaton) Scan(text string) Positions {
	out := Positions{}
	if text == "" || len(a.patterns) == 0 {
		return out
	}

	state := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		for state != 0 {
			if _, ok := a.nodes[state].next[c]; ok {
				break
			}
			state = a.nodes[state].fail
		}
		if t, ok := a.nodes[state].next[c]; ok {
			state = t
		}
		for _, pi := range a.nodes[state].out {
			p := a.patterns[pi]
			out[p] = append(out[p], i-len(p)+1)
		}
	}
	return out
}

// AhoCorasick adapts Automaton to the per-call matcher contract.
// Callers scanning many texts with the same patterns should build one Automaton
// and reuse it instead.
type AhoCorasick struct{}

// Search returns every occurrence of pattern in text.
func (AhoCorasick) Search(text, pattern string) Positions {
	if text == "" || pattern == "" {
		return Positions{}
	}
	return NewAutomaton([]string{pattern}).Scan(text)
}

// SearchMultiple reports every occurrence of every pattern in one pass.
func (AhoCorasick) SearchMultiple(text string, patterns []string) Positions {
	if text == "" {
		return Positions{}
	}
	return NewAutomaton(patterns).Scan(text)
}
