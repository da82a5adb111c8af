package health

import (
	"context"

	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
	"github.com/kailas-cloud/cvmatch/internal/textcache"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// RecordLister lists the searchable corpus.
type RecordLister interface {
	List(ctx context.Context) ([]resume.Record, error)
}

// CacheStatter exposes text cache statistics.
type CacheStatter interface {
	CacheStats() textcache.Stats
}
