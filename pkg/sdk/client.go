package cvmatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbRedis "github.com/kailas-cloud/cvmatch/internal/db/redis"
	"github.com/kailas-cloud/cvmatch/internal/db/sqlite"
	"github.com/kailas-cloud/cvmatch/internal/domain"
	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/algorithm"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/result"
	"github.com/kailas-cloud/cvmatch/internal/extract"
	"github.com/kailas-cloud/cvmatch/internal/repository/memory"
	resumerepo "github.com/kailas-cloud/cvmatch/internal/repository/resume"
	"github.com/kailas-cloud/cvmatch/internal/textcache"
	"github.com/kailas-cloud/cvmatch/internal/textsource"
	healthuc "github.com/kailas-cloud/cvmatch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/cvmatch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced in tests.
type recordStore interface {
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]resume.Record, error)
	Get(ctx context.Context, id int64) (resume.Record, error)
	Put(ctx context.Context, rec *resume.Record) (bool, error)
}

type searchUseCase interface {
	Run(ctx context.Context, raw string, algo algorithm.Algorithm, topN int) result.Envelope
	Record(ctx context.Context, id int64) (resume.Record, error)
}

// Client is the cvmatch SDK entry point.
type Client struct {
	store     recordStore
	closer    func()
	texts     *textsource.Source
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the configured record store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("cvmatch: record store required (use WithValkey, WithRedis, WithSQLite or WithRecords)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, closer, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return wireClient(store, closer, cfg, obs), nil
}

// redisRecords pairs the hash repository with the connection it runs on.
type redisRecords struct {
	*resumerepo.Repo
	conn *dbRedis.Store
}

func (r redisRecords) Ping(ctx context.Context) error { return r.conn.Ping(ctx) }

func createStore(ctx context.Context, cfg *clientConfig) (recordStore, func(), error) {
	switch cfg.driver {
	case "valkey", "redis":
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, nil, fmt.Errorf("cvmatch: %s address required", cfg.driver)
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("cvmatch: create %s store: %w", cfg.driver, err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("cvmatch: database not ready: %w", err)
		}
		return redisRecords{Repo: resumerepo.New(s), conn: s}, s.Close, nil
	case "sqlite":
		s, err := sqlite.Open(ctx, cfg.sqlitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("cvmatch: open sqlite: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	case "memory":
		recs := make([]resume.Record, 0, len(cfg.records))
		for _, r := range cfg.records {
			rec, err := toDomainRecord(r)
			if err != nil {
				return nil, nil, err
			}
			recs = append(recs, rec)
		}
		return memory.New(recs...), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("cvmatch: unknown driver %q", cfg.driver)
	}
}

func wireClient(store recordStore, closer func(), cfg *clientConfig, obs *observer) *Client {
	router := extract.NewRouter(extract.Config{
		BaseDir:  cfg.documentDir,
		MaxPages: cfg.maxPages,
		MaxBytes: cfg.maxBytes,
		Timeout:  cfg.extractTimeout,
	}, nil)
	for ext, d := range cfg.decoders {
		router.Register(d, ext)
	}

	texts := textsource.New(textcache.New(cfg.cacheLimit, nil), router, nil)
	searchSvc := searchuc.New(store, texts, nil).WithWorkers(cfg.workers)

	return &Client{
		store:     store,
		closer:    closer,
		texts:     texts,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(store, store, texts),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

// Ping checks record store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, outcome{err: err}) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs one query. raw is a comma-separated keyword list, optionally
// suffixed with "|threshold=<0..1>" for LD. Query-level failures are reported
// in Result.Error; the returned error is set only for an unknown algorithm.
func (c *Client) Search(ctx context.Context, raw string, algo Algorithm, topN int) (res Result, err error) {
	start := time.Now()
	defer func() {
		c.obs.observe("search", start, outcome{
			err:     err,
			failure: res.Error,
			attrs:   []any{"algorithm", string(algo), "hits", len(res.Hits), "scanned", res.Scanned},
		})
	}()

	a, ok := algorithm.Parse(string(algo))
	if !ok {
		return Result{}, fmt.Errorf("search: %w: %q", domain.ErrInvalidAlgorithm, algo)
	}
	return fromEnvelope(c.searchSvc.Run(ctx, raw, a, topN)), nil
}

// Record returns the stored record for applicant id.
func (c *Client) Record(ctx context.Context, id int64) (rec Record, err error) {
	start := time.Now()
	defer func() { c.obs.observe("record", start, outcome{err: err}) }()

	r, err := c.searchSvc.Record(ctx, id)
	if err != nil {
		return Record{}, err
	}
	return fromDomainRecord(r), nil
}

// Put inserts or replaces a record. Returns true if it was created.
func (c *Client) Put(ctx context.Context, rec Record) (created bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("put", start, outcome{err: err}) }()

	r, err := toDomainRecord(rec)
	if err != nil {
		return false, err
	}
	created, err = c.store.Put(ctx, &r)
	if err != nil {
		return false, fmt.Errorf("put record %d: %w", rec.ID, err)
	}
	return created, nil
}

// CacheStats returns statistics of the extracted-text cache.
func (c *Client) CacheStats() CacheStats {
	st := c.texts.CacheStats()
	return CacheStats{
		Entries:     st.Entries,
		FailedPaths: st.FailedPaths,
		Bytes:       st.Bytes,
		Truncated:   st.Truncated,
	}
}

func toDomainRecord(r Record) (resume.Record, error) {
	rec, err := resume.New(r.ID, r.Name, r.CVPath, r.RawText, r.Category, r.Position)
	if err != nil {
		return resume.Record{}, fmt.Errorf("cvmatch: record %d: %w", r.ID, err)
	}
	return rec, nil
}

func fromDomainRecord(r resume.Record) Record {
	return Record{
		ID:       r.ID(),
		Name:     r.Name(),
		CVPath:   r.CVPath(),
		RawText:  r.RawText(),
		Category: r.Category(),
		Position: r.Position(),
	}
}

func fromEnvelope(env result.Envelope) Result {
	res := Result{
		Hits:          []Hit{},
		AlgorithmTime: env.Elapsed(),
		Scanned:       env.ScannedCount(),
		Algorithm:     Algorithm(env.Algorithm()),
		Error:         env.Error(),
	}
	if th, ok := env.Threshold(); ok {
		res.Threshold = &th
	}
	if !env.OK() {
		return res
	}
	for _, h := range env.Results() {
		res.Hits = append(res.Hits, Hit{
			ApplicantID:    h.ApplicantID(),
			Name:           h.Name(),
			CVPath:         h.CVPath(),
			Category:       h.Category(),
			Position:       h.Position(),
			TotalMatches:   h.TotalMatches(),
			KeywordMatches: h.KeywordMatches(),
		})
	}
	return res
}
