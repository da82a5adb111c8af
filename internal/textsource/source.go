// Package textsource resolves the plain text of a résumé record.
package textsource

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/cvmatch/internal/domain"
	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
	"github.com/kailas-cloud/cvmatch/internal/textcache"
)

// Decoder extracts plain text from a document path.
type Decoder interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Source prefers a record's stored raw text, then the text cache, then the
// document decoder. Text is returned with its original casing.
type Source struct {
	cache   *textcache.Cache
	decoder Decoder
	group   singleflight.Group
	logger  *zap.Logger
}

// New creates a Source. decoder may be nil, in which case only raw text and
// previously cached texts are available.
func New(cache *textcache.Cache, decoder Decoder, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{cache: cache, decoder: decoder, logger: logger}
}

// Text returns the plain text for rec. Any failure wraps domain.ErrTextUnavailable.
func (s *Source) Text(ctx context.Context, rec resume.Record) (string, error) {
	if rec.HasRawText() {
		return rec.RawText(), nil
	}
	path := rec.CVPath()
	if path == "" {
		return "", domain.NewExtractionError("", fmt.Errorf("record %d has no cv_path", rec.ID()))
	}

	switch text, st := s.cache.Lookup(path); st {
	case textcache.Hit:
		return text, nil
	case textcache.Failed:
		return "", domain.NewExtractionError(path, nil)
	}

	if s.decoder == nil {
		return "", domain.NewExtractionError(path, fmt.Errorf("no document decoder configured"))
	}

	// Concurrent workers asking for the same path share one extraction.
	v, err, _ := s.group.Do(path, func() (any, error) {
		return s.load(ctx, path)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// load runs inside the singleflight call. A worker that missed the cache
// may arrive after an earlier call already stored the text, so look again.
func (s *Source) load(ctx context.Context, path string) (string, error) {
	switch text, st := s.cache.Lookup(path); st {
	case textcache.Hit:
		return text, nil
	case textcache.Failed:
		return "", domain.NewExtractionError(path, nil)
	}
	return s.extract(ctx, path)
}

func (s *Source) extract(ctx context.Context, path string) (string, error) {
	text, err := s.decoder.Extract(ctx, path)
	if err != nil {
		// A cancelled query says nothing about the document; do not poison the cache.
		if ctx.Err() != nil {
			return "", fmt.Errorf("extract %s: %w", path, ctx.Err())
		}
		s.cache.MarkFailed(path)
		s.logger.Debug("Document extraction failed", zap.String("cv_path", path), zap.Error(err))
		return "", domain.NewExtractionError(path, err)
	}
	if text == "" {
		s.cache.MarkFailed(path)
		return "", domain.NewExtractionError(path, fmt.Errorf("decoder returned no text"))
	}
	return s.cache.Store(path, text), nil
}

// CacheStats exposes the underlying cache statistics.
func (s *Source) CacheStats() textcache.Stats {
	return s.cache.Stats()
}
