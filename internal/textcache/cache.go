// Package textcache memoizes plain text extracted from résumé documents for the
// lifetime of the process. Failed paths are cached too, so a broken document is
// probed once. Entries are never evicted: résumé corpora are small and bounded.
package textcache

import (
	"sync"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
)

// Status is the outcome of a cache lookup.
type Status int

// Lookup outcomes.
const (
	Miss Status = iota
	Hit
	Failed
)

func (s Status) String() string {
	switch s {
	case Hit:
		return "hit"
	case Failed:
		return "failed"
	default:
		return "miss"
	}
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	Entries     int
	FailedPaths int
	Bytes       int64
	Truncated   int
}

// Cache maps cv_path to extracted text. Thread-safe via internal RWMutex.
type Cache struct {
	mu            sync.RWMutex
	texts         map[string]string
	failed        map[string]struct{}
	totalBytes    int64
	truncated     int
	maxEntryBytes int
	lookups       *prometheus.CounterVec
}

// New creates a Cache. maxEntryBytes > 0 truncates stored texts to that many
// bytes; 0 stores texts whole. lookups is a counter vec with label "result"
// and may be nil.
func New(maxEntryBytes int, lookups *prometheus.CounterVec) *Cache {
	if maxEntryBytes < 0 {
		maxEntryBytes = 0
	}
	return &Cache{
		texts:         make(map[string]string),
		failed:        make(map[string]struct{}),
		maxEntryBytes: maxEntryBytes,
		lookups:       lookups,
	}
}

// Lookup returns the cached text for path and whether it is a hit, a known
// failure, or a miss.
func (c *Cache) Lookup(path string) (string, Status) {
	c.mu.RLock()
	text, ok := c.texts[path]
	_, bad := c.failed[path]
	c.mu.RUnlock()

	var st Status
	switch {
	case ok:
		st = Hit
	case bad:
		st = Failed
	default:
		st = Miss
	}
	c.inc(st.String())
	return text, st
}

// Store records a successful extraction and returns the text as stored
// (possibly truncated). Empty text is recorded as a failure instead.
// A path stored twice keeps its first text.
func (c *Cache) Store(path, text string) string {
	if text == "" {
		c.MarkFailed(path)
		return ""
	}
	text, cut := c.truncate(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.texts[path]; ok {
		return existing
	}
	delete(c.failed, path)
	c.texts[path] = text
	c.totalBytes += int64(len(text))
	if cut {
		c.truncated++
	}
	return text
}

// MarkFailed records path as not extractable.
func (c *Cache) MarkFailed(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.texts[path]; ok {
		return
	}
	c.failed[path] = struct{}{}
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries:     len(c.texts),
		FailedPaths: len(c.failed),
		Bytes:       c.totalBytes,
		Truncated:   c.truncated,
	}
}

// truncate cuts text to maxEntryBytes without splitting a UTF-8 sequence.
func (c *Cache) truncate(text string) (string, bool) {
	if c.maxEntryBytes == 0 || len(text) <= c.maxEntryBytes {
		return text, false
	}
	cut := c.maxEntryBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut], true
}

func (c *Cache) inc(result string) {
	if c.lookups != nil {
		c.lookups.WithLabelValues(result).Inc()
	}
}
