package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cvmatch/internal/config"
	dbRedis "github.com/kailas-cloud/cvmatch/internal/db/redis"
	"github.com/kailas-cloud/cvmatch/internal/db/sqlite"
	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
	"github.com/kailas-cloud/cvmatch/internal/extract"
	logpkg "github.com/kailas-cloud/cvmatch/internal/logger"
	"github.com/kailas-cloud/cvmatch/internal/metrics"
	resumerepo "github.com/kailas-cloud/cvmatch/internal/repository/resume"
	"github.com/kailas-cloud/cvmatch/internal/textcache"
	"github.com/kailas-cloud/cvmatch/internal/textsource"
	healthuc "github.com/kailas-cloud/cvmatch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/cvmatch/internal/usecase/search"
)

// recordStore is what every storage backend offers the commands.
type recordStore interface {
	List(ctx context.Context) ([]resume.Record, error)
	Get(ctx context.Context, id int64) (resume.Record, error)
	Put(ctx context.Context, rec *resume.Record) (bool, error)
	NextID(ctx context.Context) (int64, error)
}

// app is the composition root shared by all commands.
type app struct {
	cfg     config.Config
	env     string
	logger  *zap.Logger
	records recordStore
	pinger  healthuc.DBPinger
	texts   *textsource.Source
	search  *searchuc.Service
	health  *healthuc.Service
	closers []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envName)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(envName, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	metrics.Register()

	a := &app{cfg: cfg, env: envName, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	cache := textcache.New(cfg.Cache.MaxEntryBytes, metrics.TextCacheTotal)
	router := extract.NewRouter(extract.Config{
		BaseDir:  cfg.Extract.BaseDir,
		MaxPages: cfg.Extract.MaxPages,
		MaxBytes: cfg.Extract.MaxBytes,
		Timeout:  time.Duration(cfg.Extract.TimeoutSec) * time.Second,
	}, metrics.ExtractDuration)

	a.texts = textsource.New(cache, router, logger)
	a.search = searchuc.New(a.records, a.texts, logger).WithWorkers(cfg.Search.Workers)
	a.health = healthuc.New(a.pinger, a.records, a.texts)
	return a, nil
}

// openStore connects the record store selected by database.driver.
func (a *app) openStore(ctx context.Context) error {
	db := a.cfg.Database
	switch db.Driver {
	case config.DriverRedis, config.DriverValkey:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    db.Addrs,
			Password: db.Password,
		})
		if err != nil {
			return fmt.Errorf("create %s store: %w", db.Driver, err)
		}
		a.closers = append(a.closers, store.Close)

		if err := store.WaitForReady(ctx, time.Duration(db.ReadinessTimeout)*time.Second); err != nil {
			return fmt.Errorf("database not ready: %w", err)
		}
		a.records = resumerepo.New(store)
		a.pinger = store
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, db.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, func() { _ = store.Close() })
		a.records = store
		a.pinger = store
	default:
		return fmt.Errorf("unknown database driver %q", db.Driver)
	}

	a.logger.Info("Connected to database",
		zap.String("driver", db.Driver),
		zap.Strings("addrs", db.Addrs),
		zap.String("sqlite_path", db.SQLitePath),
	)
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
