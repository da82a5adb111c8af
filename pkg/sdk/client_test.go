package cvmatch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/algorithm"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/result"
)

func memClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	base := []Option{WithRecords(
		Record{ID: 1, Name: "Ann Lee", CVPath: "ann.pdf", RawText: "python go python", Position: "Engineer"},
		Record{ID: 2, Name: "Bo Kim", CVPath: "bo.pdf", RawText: "go"},
	)}
	c, err := New(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_NoStore(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no record store configured")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown"}
	_, _, err := createStore(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_MissingAddress(t *testing.T) {
	_, err := New(context.Background(), WithValkey("", ""))
	if err == nil || !strings.Contains(err.Error(), "address required") {
		t.Fatalf("expected address error, got %v", err)
	}
}

func TestNew_InvalidRecord(t *testing.T) {
	_, err := New(context.Background(), WithRecords(Record{ID: 0, Name: "Nobody", RawText: "x"}))
	if err == nil {
		t.Fatal("expected error for non-positive id")
	}
}

func TestSearch_Memory(t *testing.T) {
	c := memClient(t)
	res, err := c.Search(context.Background(), "Python, GO", AC, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("unexpected envelope error %q", res.Error)
	}
	if len(res.Hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(res.Hits))
	}
	if res.Hits[0].ApplicantID != 1 || res.Hits[0].TotalMatches != 3 {
		t.Errorf("first hit = (%d,%d), want (1,3)", res.Hits[0].ApplicantID, res.Hits[0].TotalMatches)
	}
	if res.Hits[0].KeywordMatches["python"] != 2 {
		t.Errorf("python matches = %d, want 2", res.Hits[0].KeywordMatches["python"])
	}
	if res.Hits[1].ApplicantID != 2 || res.Hits[1].TotalMatches != 1 {
		t.Errorf("second hit = (%d,%d), want (2,1)", res.Hits[1].ApplicantID, res.Hits[1].TotalMatches)
	}
	if res.Scanned != 2 || res.Algorithm != AC || res.Threshold != nil {
		t.Errorf("unexpected bookkeeping: %+v", res)
	}
}

func TestSearch_LDThreshold(t *testing.T) {
	c := memClient(t, WithWorkers(4))
	res, err := c.Search(context.Background(), "pyhton|threshold=0.5", LD, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Threshold == nil || *res.Threshold != 0.5 {
		t.Fatalf("threshold = %v, want 0.5", res.Threshold)
	}
	if len(res.Hits) != 1 || res.Hits[0].ApplicantID != 1 || res.Hits[0].TotalMatches != 2 {
		t.Errorf("unexpected hits: %+v", res.Hits)
	}
}

func TestSearch_NoKeywords(t *testing.T) {
	c := memClient(t)
	res, err := c.Search(context.Background(), " , ", KMP, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Error != "no keywords" || len(res.Hits) != 0 || res.Hits == nil {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestSearch_InvalidAlgorithm(t *testing.T) {
	c := memClient(t)
	_, err := c.Search(context.Background(), "go", Algorithm("REGEX"), 10)
	if !errors.Is(err, ErrInvalidAlgorithm) {
		t.Fatalf("expected ErrInvalidAlgorithm, got %v", err)
	}
}

func TestSearch_DocumentDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cy.txt"), []byte("Kubernetes and Python"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := New(context.Background(),
		WithRecords(Record{ID: 3, Name: "Cy Ray", CVPath: "cy.txt"}),
		WithDocumentDir(dir),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	for range 2 {
		res, err := c.Search(context.Background(), "kubernetes", BM, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Hits) != 1 || res.Hits[0].TotalMatches != 1 {
			t.Fatalf("unexpected hits: %+v", res.Hits)
		}
	}
	if st := c.CacheStats(); st.Entries != 1 {
		t.Errorf("cache entries = %d, want 1", st.Entries)
	}
}

func TestSearch_CustomDecoder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dee.docx"), []byte{0x50, 0x4b}, 0o600); err != nil {
		t.Fatal(err)
	}
	dec := decoderFunc(func(string) (string, error) { return "Rust and rust", nil })

	c, err := New(context.Background(),
		WithRecords(Record{ID: 4, Name: "Dee Fox", CVPath: "dee.docx"}),
		WithDocumentDir(dir),
		WithDecoder(dec, ".docx"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	res, _ := c.Search(context.Background(), "rust", KMP, 10)
	if len(res.Hits) != 1 || res.Hits[0].TotalMatches != 2 {
		t.Errorf("unexpected hits: %+v", res.Hits)
	}
}

func TestSearch_CancelledDropsHits(t *testing.T) {
	rec := resume.Reconstruct(1, "Ann Lee", "ann.pdf", "go", "", "")
	hit, _ := result.NewHit(rec, result.Tally{"go": 1})
	c := testClient(&mockSearchUC{
		runFn: func(context.Context, string, algorithm.Algorithm, int) result.Envelope {
			return result.NewEnvelope([]result.Hit{hit}, 0, 1, algorithm.KMP, 0.7).WithError("cancelled")
		},
	}, nil)

	res, err := c.Search(context.Background(), "go", KMP, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Error != "cancelled" || len(res.Hits) != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestRecordAndPut(t *testing.T) {
	c := memClient(t)
	ctx := context.Background()

	got, err := c.Record(ctx, 1)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.Name != "Ann Lee" || got.Position != "Engineer" {
		t.Errorf("unexpected record: %+v", got)
	}

	if _, err := c.Record(ctx, 99); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}

	created, err := c.Put(ctx, Record{ID: 9, Name: "Eve Moss", RawText: "go go go"})
	if err != nil || !created {
		t.Fatalf("Put: created=%v err=%v", created, err)
	}
	res, _ := c.Search(ctx, "go", KMP, 1)
	if len(res.Hits) != 1 || res.Hits[0].ApplicantID != 9 {
		t.Errorf("new record not ranked first: %+v", res.Hits)
	}

	if _, err := c.Put(ctx, Record{ID: 10, Name: "No Text"}); err == nil {
		t.Error("expected validation error")
	}
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, WithSQLite(":memory:"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if h := c.Health(ctx); h.Checks["records"] != "empty" {
		t.Errorf("records check = %q, want empty", h.Checks["records"])
	}
	if res, _ := c.Search(ctx, "go", KMP, 10); res.Error != "empty corpus" {
		t.Errorf("error = %q, want empty corpus", res.Error)
	}

	if _, err := c.Put(ctx, Record{ID: 5, Name: "Fay Lin", RawText: "SQL and Go", Category: "Data"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	res, _ := c.Search(ctx, "sql", KMP, 10)
	if len(res.Hits) != 1 || res.Hits[0].Category != "Data" {
		t.Errorf("unexpected hits: %+v", res.Hits)
	}
}

func TestHealth(t *testing.T) {
	c := memClient(t)
	h := c.Health(context.Background())
	if h.Status != "ok" || h.Records != 2 || h.Checks["database"] != "ok" {
		t.Errorf("unexpected health: %+v", h)
	}
}

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := memClient(t, WithPrometheus(reg))
	ctx := context.Background()

	_, _ = c.Search(ctx, "go", KMP, 10)
	_, _ = c.Search(ctx, "", KMP, 10)
	_, _ = c.Search(ctx, "go", Algorithm("nope"), 10)

	ops := c.obs.metrics.operations
	if v := testutil.ToFloat64(ops.WithLabelValues("search", "ok")); v != 1 {
		t.Errorf("ok = %v, want 1", v)
	}
	if v := testutil.ToFloat64(ops.WithLabelValues("search", "no_keywords")); v != 1 {
		t.Errorf("no_keywords = %v, want 1", v)
	}
	if v := testutil.ToFloat64(ops.WithLabelValues("search", "error")); v != 1 {
		t.Errorf("error = %v, want 1", v)
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.metrics.operations != second.metrics.operations {
		t.Error("expected the registered counter to be reused")
	}
}

func TestObserver_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := memClient(t, WithLogger(logger))

	_, _ = c.Search(context.Background(), "go", KMP, 10)
	_, _ = c.Record(context.Background(), 42)

	out := buf.String()
	if !strings.Contains(out, "op=search") || !strings.Contains(out, "hits=2") {
		t.Errorf("missing search log line: %s", out)
	}
	if !strings.Contains(out, "op=record") || !strings.Contains(out, "operation failed") {
		t.Errorf("missing failed record log line: %s", out)
	}
}

func TestNilObserver(t *testing.T) {
	var o *observer
	o.observe("noop", time.Now(), outcome{})
}
