package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kailas-cloud/cvmatch/internal/domain"
	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
)

func rec(id int64, name string) resume.Record {
	return resume.Reconstruct(id, name, "cv.pdf", "", "", "")
}

func TestNew_LaterRecordWins(t *testing.T) {
	s := New(rec(1, "First"), rec(1, "Second"))
	got, err := s.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name() != "Second" {
		t.Errorf("expected Second, got %q", got.Name())
	}
}

func TestPut_CreateThenReplace(t *testing.T) {
	s := New()
	r := rec(5, "Ann")

	created, err := s.Put(context.Background(), &r)
	if err != nil || !created {
		t.Fatalf("first put: created=%v err=%v", created, err)
	}
	created, err = s.Put(context.Background(), &r)
	if err != nil || created {
		t.Fatalf("second put: created=%v err=%v", created, err)
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := New().Get(context.Background(), 9)
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestList_SortedByID(t *testing.T) {
	s := New(rec(3, "C"), rec(1, "A"), rec(2, "B"))
	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []int64{1, 2, 3} {
		if got[i].ID() != want {
			t.Errorf("position %d: got id %d, want %d", i, got[i].ID(), want)
		}
	}
}

func TestList_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(rec(1, "A")).List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDeleteAndNextID(t *testing.T) {
	s := New(rec(4, "D"), rec(10, "J"))
	ctx := context.Background()

	next, _ := s.NextID(ctx)
	if next != 11 {
		t.Errorf("expected 11, got %d", next)
	}
	_ = s.Delete(ctx, 10)
	_ = s.Delete(ctx, 99)
	next, _ = s.NextID(ctx)
	if next != 5 {
		t.Errorf("expected 5 after delete, got %d", next)
	}
	if next, _ = New().NextID(ctx); next != 1 {
		t.Errorf("expected 1 for empty store, got %d", next)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			r := rec(id, "X")
			_, _ = s.Put(ctx, &r)
			_, _ = s.List(ctx)
		}(i)
	}
	wg.Wait()

	all, _ := s.List(ctx)
	if len(all) != 50 {
		t.Errorf("expected 50 records, got %d", len(all))
	}
}
