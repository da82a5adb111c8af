// Package memory keeps résumé records in process memory. It backs embedded
// use of the search engine where no external store is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kailas-cloud/cvmatch/internal/domain"
	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
)

// Store is a thread-safe map of applicant id to record.
type Store struct {
	mu   sync.RWMutex
	recs map[int64]resume.Record
}

// New creates a Store holding recs. Later records replace earlier ones with the same id.
func New(recs ...resume.Record) *Store {
	s := &Store{recs: make(map[int64]resume.Record, len(recs))}
	for _, r := range recs {
		s.recs[r.ID()] = r
	}
	return s
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Put inserts or replaces a record. Returns true if it was created.
func (s *Store) Put(_ context.Context, rec *resume.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.recs[rec.ID()]
	s.recs[rec.ID()] = *rec
	return !exists, nil
}

// Get returns the record for id or domain.ErrRecordNotFound.
func (s *Store) Get(_ context.Context, id int64) (resume.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recs[id]
	if !ok {
		return resume.Record{}, domain.ErrRecordNotFound
	}
	return r, nil
}

// List returns every record ordered by applicant id.
func (s *Store) List(ctx context.Context) ([]resume.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]resume.Record, 0, len(s.recs))
	for _, r := range s.recs {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// Delete removes a record. Missing ids are not an error.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	delete(s.recs, id)
	s.mu.Unlock()
	return nil
}

// NextID returns one past the highest applicant id held.
func (s *Store) NextID(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var maxID int64
	for id := range s.recs {
		maxID = max(maxID, id)
	}
	return maxID + 1, nil
}
