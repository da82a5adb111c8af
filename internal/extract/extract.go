// Package extract turns résumé documents into plain text.
// A Router picks a decoder by file extension and enforces the per-document
// limits: input size, page count (PDF) and wall-clock time.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/cvmatch/internal/domain"
)

// Default limits.
const (
	DefaultMaxPages = 10
	DefaultMaxBytes = 10 * 1024 * 1024 // 10 MB
	DefaultTimeout  = 15 * time.Second
)

// Decoder extracts plain text from a single local file.
type Decoder interface {
	Decode(path string) (string, error)
}

// Config holds Router limits. Zero values fall back to the defaults.
type Config struct {
	BaseDir  string
	MaxPages int
	MaxBytes int64
	Timeout  time.Duration
}

// Router dispatches by extension and bounds every extraction.
type Router struct {
	baseDir  string
	maxBytes int64
	timeout  time.Duration
	decoders map[string]Decoder
	duration *prometheus.HistogramVec
}

// NewRouter creates a Router with PDF, HTML and plain-text decoders registered.
// duration is a histogram vec with label "kind" and may be nil.
func NewRouter(cfg Config, duration *prometheus.HistogramVec) *Router {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	r := &Router{
		baseDir:  cfg.BaseDir,
		maxBytes: cfg.MaxBytes,
		timeout:  cfg.Timeout,
		decoders: make(map[string]Decoder),
		duration: duration,
	}
	r.Register(PDF{MaxPages: cfg.MaxPages}, ".pdf")
	r.Register(HTML{}, ".html", ".htm")
	r.Register(Plain{}, ".txt", ".text", ".md")
	return r
}

// Register binds d to the given extensions (with leading dot), replacing
// any previous binding.
func (r *Router) Register(d Decoder, exts ...string) {
	for _, ext := range exts {
		r.decoders[strings.ToLower(ext)] = d
	}
}

// Extract resolves path against the base directory, checks the size limit and
// runs the matching decoder under the time budget.
func (r *Router) Extract(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	dec, ok := r.decoders[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedDocument, ext)
	}

	full := r.resolve(path)
	info, err := os.Stat(full)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", full, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", full)
	}
	if info.Size() > r.maxBytes {
		return "", fmt.Errorf("%s is %d bytes, limit %d", full, info.Size(), r.maxBytes)
	}

	start := time.Now()
	text, err := r.decodeWithTimeout(ctx, dec, full)
	if r.duration != nil {
		r.duration.WithLabelValues(strings.TrimPrefix(ext, ".")).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (r *Router) resolve(path string) string {
	if r.baseDir == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(r.baseDir, path)
}

type decodeResult struct {
	text string
	err  error
}

// decodeWithTimeout runs dec on its own goroutine. Decoders are not context-aware,
// so an abandoned decode finishes in the background and its result is dropped.
func (r *Router) decodeWithTimeout(ctx context.Context, dec Decoder, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan decodeResult, 1)
	go func() {
		defer func() {
			if rvr := recover(); rvr != nil {
				done <- decodeResult{err: fmt.Errorf("decode %s: panic: %v", path, rvr)}
			}
		}()
		text, err := dec.Decode(path)
		done <- decodeResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("decode %s: %w", path, ctx.Err())
	case res := <-done:
		return res.text, res.err
	}
}
