package health

import (
	"context"

	"github.com/kailas-cloud/cvmatch/internal/textcache"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckEmpty indicates a reachable store with no records.
	CheckEmpty CheckResult = "empty"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status  Status
	Checks  map[string]CheckResult
	Records int
	Cache   *textcache.Stats
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	records RecordLister
	cache   CacheStatter
}

// New creates a Service. records and cache can be nil.
func New(db DBPinger, records RecordLister, cache CacheStatter) *Service {
	return &Service{db: db, records: records, cache: cache}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	var r Report

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.records != nil {
		recs, err := s.records.List(ctx)
		switch {
		case err != nil:
			checks["records"] = CheckError
		case len(recs) == 0:
			checks["records"] = CheckEmpty
		default:
			checks["records"] = CheckOK
			r.Records = len(recs)
		}
	}

	if s.cache != nil {
		st := s.cache.CacheStats()
		r.Cache = &st
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	r.Status = Healthy
	switch {
	case failed == len(checks):
		r.Status = Unhealthy
	case failed > 0:
		r.Status = Degraded
	}
	r.Checks = checks
	return r
}
