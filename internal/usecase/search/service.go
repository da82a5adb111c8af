package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/cvmatch/internal/domain"
	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/algorithm"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/query"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/cvmatch/internal/logger"
	"github.com/kailas-cloud/cvmatch/internal/metrics"
)

// Service runs keyword queries over the résumé corpus.
type Service struct {
	records RecordProvider
	texts   TextSource
	logger  *zap.Logger
	workers int
}

// New creates a search service that scans records one at a time.
func New(records RecordProvider, texts TextSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{records: records, texts: texts, logger: logger, workers: 1}
}

// WithWorkers sets how many records are scored concurrently. n < 1 means 1.
func (s *Service) WithWorkers(n int) *Service {
	s.workers = max(n, 1)
	return s
}

// Record returns a single résumé record by applicant id.
func (s *Service) Record(ctx context.Context, id int64) (resume.Record, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return resume.Record{}, fmt.Errorf("get record %d: %w", id, err)
	}
	return rec, nil
}

// Run parses raw, scans every record with the matcher selected by algo and
// returns the ranked envelope. Failures are reported in the envelope, never
// as a Go error. When ctx is cancelled the scan stops after in-flight records
// and the hits finalized so far are returned with the "cancelled" error.
func (s *Service) Run(ctx context.Context, raw string, algo algorithm.Algorithm, topN int) result.Envelope {
	q, err := query.Parse(raw, algo, topN)
	if err != nil {
		return s.finish(ctx, raw, result.Failed(algo, query.DefaultThreshold, domain.EnvelopeError(err)), 0)
	}

	records, err := s.records.List(ctx)
	if err != nil {
		if ctx.Err() != nil {
			err = domain.ErrCancelled
		} else {
			s.log(ctx).Error("List records failed", zap.Error(err))
		}
		return s.finish(ctx, raw, result.Failed(algo, q.Threshold(), domain.EnvelopeError(err)), 0)
	}
	if len(records) == 0 {
		return s.finish(ctx, raw, result.Failed(algo, q.Threshold(), domain.EnvelopeError(domain.ErrCorpusEmpty)), 0)
	}

	start := time.Now()

	sc := newScan(&q)
	defer sc.close()

	hits, scanned, cancelled := s.scan(ctx, sc, records)

	env := result.NewEnvelope(rank(hits, q.TopN()), time.Since(start), scanned, algo, q.Threshold())
	if cancelled {
		env = env.WithError(domain.EnvelopeError(domain.ErrCancelled))
	}
	return s.finish(ctx, raw, env, len(hits))
}

// scan scores records on a bounded pool. Each record writes its own slot so
// the hit set does not depend on scheduling.
func (s *Service) scan(
	ctx context.Context, sc *scan, records []resume.Record,
) (hits []result.Hit, scanned int, cancelled bool) {
	type slot struct {
		hit result.Hit
		ok  bool
	}
	slots := make([]slot, len(records))

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, rec := range records {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		scanned++
		if s.workers == 1 {
			// Inline, so the cancellation check above sees the previous record's effects.
			slots[i].hit, slots[i].ok = s.score(ctx, sc, rec)
			continue
		}
		g.Go(func() error {
			slots[i].hit, slots[i].ok = s.score(ctx, sc, rec)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	hits = make([]result.Hit, 0, len(slots))
	for _, sl := range slots {
		if sl.ok {
			hits = append(hits, sl.hit)
		}
	}
	return hits, scanned, cancelled
}

// score matches one record. Text failures and matcher panics skip the record.
func (s *Service) score(ctx context.Context, sc *scan, rec resume.Record) (hit result.Hit, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log(ctx).Error("Record scoring panicked, skipping",
				zap.Int64("applicant_id", rec.ID()),
				zap.String("algorithm", string(sc.algo)),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			hit, ok = result.Hit{}, false
		}
	}()

	text, err := s.texts.Text(ctx, rec)
	if err != nil {
		s.log(ctx).Debug("Record skipped",
			zap.Int64("applicant_id", rec.ID()),
			zap.String("cv_path", rec.CVPath()),
			zap.Error(err),
		)
		return result.Hit{}, false
	}

	return result.NewHit(rec, sc.tally(strings.ToLower(text)))
}

// log prefers the request logger so lines carry its request_id.
func (s *Service) log(ctx context.Context) *zap.Logger {
	return logpkg.FromContextOr(ctx, s.logger)
}

// finish records metrics and the per-query log line.
func (s *Service) finish(ctx context.Context, raw string, env result.Envelope, hits int) result.Envelope {
	algo := string(env.Algorithm())
	if !env.Algorithm().IsValid() {
		algo = "unknown"
	}
	status := "ok"
	if !env.OK() {
		status = strings.ReplaceAll(env.Error(), " ", "_")
	}

	metrics.SearchQueriesTotal.WithLabelValues(algo, status).Inc()
	metrics.SearchDuration.WithLabelValues(algo).Observe(env.Elapsed().Seconds())
	metrics.SearchScannedRecordsTotal.WithLabelValues(algo).Add(float64(env.ScannedCount()))

	fields := []zap.Field{
		zap.String("algorithm", algo),
		zap.String("query", raw),
		zap.Int("scanned", env.ScannedCount()),
		zap.Int("hits", hits),
		zap.Int("returned", len(env.Results())),
		zap.Float64("algorithm_time_ms", env.AlgorithmTimeMS()),
	}
	if th, ok := env.Threshold(); ok {
		fields = append(fields, zap.Float64("threshold", th))
	}
	if !env.OK() {
		fields = append(fields, zap.String("error", env.Error()))
	}
	s.log(ctx).Info("search_query", fields...)

	return env
}
