package resume

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/cvmatch/internal/db"
	"github.com/kailas-cloud/cvmatch/internal/domain"
	domresume "github.com/kailas-cloud/cvmatch/internal/domain/resume"
)

func TestPut_Created(t *testing.T) {
	repo, ms := newTestRepo(t)
	rec := testRecord(t)

	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		gotKey, gotFields = key, fields
		return nil
	}
	ms.delFn = func(context.Context, string) error {
		t.Error("del must not be called for a new record")
		return nil
	}

	created, err := repo.Put(context.Background(), &rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}
	if gotKey != "cvmatch:resume:42" {
		t.Errorf("unexpected key %q", gotKey)
	}
	if gotFields["name"] != "Ada Lovelace" || gotFields["cv_path"] != "cv/ada.pdf" {
		t.Errorf("unexpected fields %v", gotFields)
	}
	if _, ok := gotFields["raw_text"]; ok {
		t.Error("empty raw_text must be omitted")
	}
}

func TestPut_ReplacesExisting(t *testing.T) {
	repo, ms := newTestRepo(t)
	rec := testRecord(t)

	ms.existsFn = func(context.Context, string) (bool, error) { return true, nil }
	deleted := false
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key == "cvmatch:resume:42"
		return nil
	}

	created, err := repo.Put(context.Background(), &rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created=false")
	}
	if !deleted {
		t.Error("expected the old hash to be deleted")
	}
}

func TestPut_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	rec := testRecord(t)

	ms.hsetFn = func(context.Context, string, map[string]string) error {
		return &db.Error{Op: db.OpHSet, Err: errors.New("readonly")}
	}

	if _, err := repo.Put(context.Background(), &rec); err == nil {
		t.Fatal("expected error")
	}
}

func TestPutMany(t *testing.T) {
	repo, ms := newTestRepo(t)

	var items []db.HashSetItem
	ms.hsetMultiFn = func(_ context.Context, in []db.HashSetItem) error {
		items = in
		return nil
	}

	recs := []domresume.Record{
		domresume.Reconstruct(1, "A", "", "go", "", ""),
		domresume.Reconstruct(2, "B", "b.pdf", "", "", ""),
	}
	if err := repo.PutMany(context.Background(), recs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].Key != "cvmatch:resume:1" || items[1].Fields["cv_path"] != "b.pdf" {
		t.Errorf("unexpected items %v", items)
	}
}

func TestGet_Found(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "cvmatch:resume:7" {
			t.Errorf("unexpected key %q", key)
		}
		return map[string]string{"name": "Grace", "raw_text": "cobol"}, nil
	}

	rec, err := repo.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID() != 7 || rec.Name() != "Grace" || rec.RawText() != "cobol" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), 7)
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestList_SortedByID(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "cvmatch:resume:*" {
			t.Errorf("unexpected pattern %q", pattern)
		}
		return []string{"cvmatch:resume:10", "cvmatch:resume:2", "cvmatch:resume:bogus", "cvmatch:resume:1"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		want := []string{"cvmatch:resume:1", "cvmatch:resume:2", "cvmatch:resume:10"}
		if len(keys) != len(want) {
			t.Fatalf("unexpected keys %v", keys)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Fatalf("unexpected keys %v", keys)
			}
		}
		return []map[string]string{
			{"name": "one", "raw_text": "x"},
			{}, // deleted concurrently
			{"name": "ten", "raw_text": "y"},
		}, nil
	}

	recs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 || recs[0].ID() != 1 || recs[1].ID() != 10 {
		t.Errorf("unexpected records %v", recs)
	}
}

func TestList_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllMultiFn = func(context.Context, []string) ([]map[string]string, error) {
		t.Error("hgetall must not be called for an empty scan")
		return nil, nil
	}

	recs, err := repo.List(context.Background())
	if err != nil || len(recs) != 0 {
		t.Errorf("expected empty list, got %v, %v", recs, err)
	}
}

func TestList_ScanError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(context.Context, string) ([]string, error) {
		return nil, &db.Error{Op: db.OpScan, Err: context.DeadlineExceeded}
	}

	_, err := repo.List(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped deadline error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, ms := newTestRepo(t)
	var gotKey string
	ms.delFn = func(_ context.Context, key string) error {
		gotKey = key
		return nil
	}

	if err := repo.Delete(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "cvmatch:resume:3" {
		t.Errorf("unexpected key %q", gotKey)
	}
}

func TestNextID(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.incrByFn = func(_ context.Context, key string, val int64) (int64, error) {
		if key != "cvmatch:seq:resume" || val != 1 {
			t.Errorf("unexpected incr %q by %d", key, val)
		}
		return 17, nil
	}

	id, err := repo.NextID(context.Background())
	if err != nil || id != 17 {
		t.Errorf("expected 17, got %d (%v)", id, err)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key  string
		id   int64
		want bool
	}{
		{"cvmatch:resume:5", 5, true},
		{"cvmatch:resume:0", 0, false},
		{"cvmatch:resume:-1", 0, false},
		{"cvmatch:resume:abc", 0, false},
		{"other:resume:5", 0, false},
	}
	for _, tc := range tests {
		id, ok := parseKey(tc.key)
		if ok != tc.want || id != tc.id {
			t.Errorf("parseKey(%q) = %d, %v", tc.key, id, ok)
		}
	}
}
