package cvmatch

import (
	"context"

	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/algorithm"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/result"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	runFn    func(ctx context.Context, raw string, algo algorithm.Algorithm, topN int) result.Envelope
	recordFn func(ctx context.Context, id int64) (resume.Record, error)
}

func (m *mockSearchUC) Run(ctx context.Context, raw string, algo algorithm.Algorithm, topN int) result.Envelope {
	return m.runFn(ctx, raw, algo, topN)
}

func (m *mockSearchUC) Record(ctx context.Context, id int64) (resume.Record, error) {
	return m.recordFn(ctx, id)
}

// --- decoder stub ---

type decoderFunc func(path string) (string, error)

func (f decoderFunc) Decode(path string) (string, error) { return f(path) }

// --- helpers ---

func testClient(searchSvc searchUseCase, obs *observer) *Client {
	return &Client{searchSvc: searchSvc, obs: obs}
}
