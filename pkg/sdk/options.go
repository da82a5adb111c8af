package cvmatch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver     string // "valkey", "redis", "sqlite" or "memory"
	addrs      []string
	password   string
	sqlitePath string
	records    []Record

	documentDir    string
	maxPages       int
	maxBytes       int64
	extractTimeout time.Duration
	decoders       map[string]Decoder

	cacheLimit int
	workers    int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey reads records from a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis reads records from a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSQLite reads records from an ATS database file. ":memory:" opens a
// private in-memory database.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "sqlite"
		c.sqlitePath = path
	})
}

// WithRecords searches a fixed in-memory record set.
func WithRecords(recs ...Record) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
		c.records = append(c.records, recs...)
	})
}

// WithDocumentDir resolves relative cv_path values against dir.
func WithDocumentDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.documentDir = dir
	})
}

// WithExtractLimits bounds document extraction. Zero values keep the defaults
// (10 pages, 10 MB, 15s).
func WithExtractLimits(maxPages int, maxBytes int64, timeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxPages = maxPages
		c.maxBytes = maxBytes
		c.extractTimeout = timeout
	})
}

// WithDecoder handles documents with the given extensions (".docx", ...)
// using d, replacing any built-in decoder for them.
func WithDecoder(d Decoder, exts ...string) Option {
	return optionFunc(func(c *clientConfig) {
		if c.decoders == nil {
			c.decoders = make(map[string]Decoder)
		}
		for _, ext := range exts {
			c.decoders[ext] = d
		}
	})
}

// WithCacheLimit truncates each cached text to n bytes. Default: no limit.
func WithCacheLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheLimit = n
	})
}

// WithWorkers scores up to n records concurrently. Default: 1.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
