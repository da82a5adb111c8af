package textsource

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cvmatch/internal/domain"
	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
	"github.com/kailas-cloud/cvmatch/internal/textcache"
)

type mockDecoder struct {
	extractFn func(ctx context.Context, path string) (string, error)
	calls     atomic.Int32
}

func (m *mockDecoder) Extract(ctx context.Context, path string) (string, error) {
	m.calls.Add(1)
	if m.extractFn != nil {
		return m.extractFn(ctx, path)
	}
	return "", nil
}

func newTestSource(t *testing.T, dec *mockDecoder) (*Source, *textcache.Cache) {
	t.Helper()
	cache := textcache.New(0, nil)
	if dec == nil {
		return New(cache, nil, zap.NewNop()), cache
	}
	return New(cache, dec, zap.NewNop()), cache
}

func TestText_PrefersRawText(t *testing.T) {
	dec := &mockDecoder{}
	src, _ := newTestSource(t, dec)

	rec := resume.Reconstruct(1, "a", "cv/1.pdf", "Raw Python", "", "")
	text, err := src.Text(context.Background(), rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Raw Python" {
		t.Errorf("Text() = %q", text)
	}
	if dec.calls.Load() != 0 {
		t.Error("decoder called despite raw text")
	}
}

func TestText_DecodesOnceThenCaches(t *testing.T) {
	dec := &mockDecoder{extractFn: func(_ context.Context, _ string) (string, error) {
		return "Senior GO Engineer", nil
	}}
	src, cache := newTestSource(t, dec)
	rec := resume.Reconstruct(1, "a", "cv/1.pdf", "", "", "")

	for i := 0; i < 3; i++ {
		text, err := src.Text(context.Background(), rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "Senior GO Engineer" {
			t.Errorf("Text() = %q, casing must be preserved", text)
		}
	}
	if dec.calls.Load() != 1 {
		t.Errorf("decoder calls = %d, want 1", dec.calls.Load())
	}
	if cache.Stats().Entries != 1 {
		t.Errorf("cache entries = %d", cache.Stats().Entries)
	}
}

func TestText_NegativeCaching(t *testing.T) {
	dec := &mockDecoder{extractFn: func(_ context.Context, _ string) (string, error) {
		return "", errors.New("corrupt pdf")
	}}
	src, _ := newTestSource(t, dec)
	rec := resume.Reconstruct(1, "a", "cv/bad.pdf", "", "", "")

	for i := 0; i < 3; i++ {
		_, err := src.Text(context.Background(), rec)
		if !errors.Is(err, domain.ErrTextUnavailable) {
			t.Fatalf("expected ErrTextUnavailable, got %v", err)
		}
	}
	if dec.calls.Load() != 1 {
		t.Errorf("decoder calls = %d, want 1 (failed path must not be re-probed)", dec.calls.Load())
	}
}

func TestText_EmptyExtractionIsFailure(t *testing.T) {
	dec := &mockDecoder{}
	src, cache := newTestSource(t, dec)
	rec := resume.Reconstruct(1, "a", "cv/scan.pdf", "", "", "")

	if _, err := src.Text(context.Background(), rec); !errors.Is(err, domain.ErrTextUnavailable) {
		t.Fatalf("expected ErrTextUnavailable, got %v", err)
	}
	if cache.Stats().FailedPaths != 1 {
		t.Errorf("failed paths = %d", cache.Stats().FailedPaths)
	}
}

func TestText_CancelledQueryDoesNotPoisonCache(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dec := &mockDecoder{extractFn: func(ctx context.Context, _ string) (string, error) {
		cancel()
		return "", ctx.Err()
	}}
	src, cache := newTestSource(t, dec)
	rec := resume.Reconstruct(1, "a", "cv/1.pdf", "", "", "")

	if _, err := src.Text(ctx, rec); err == nil {
		t.Fatal("expected error")
	}
	if _, st := cache.Lookup("cv/1.pdf"); st != textcache.Miss {
		t.Errorf("cache status = %v, want miss", st)
	}
}

func TestText_NoDecoder(t *testing.T) {
	src, _ := newTestSource(t, nil)
	rec := resume.Reconstruct(1, "a", "cv/1.pdf", "", "", "")
	if _, err := src.Text(context.Background(), rec); !errors.Is(err, domain.ErrTextUnavailable) {
		t.Fatalf("expected ErrTextUnavailable, got %v", err)
	}
}

func TestText_NoPath(t *testing.T) {
	src, _ := newTestSource(t, &mockDecoder{})
	rec := resume.Reconstruct(1, "a", "", "", "", "")
	if _, err := src.Text(context.Background(), rec); !errors.Is(err, domain.ErrTextUnavailable) {
		t.Fatalf("expected ErrTextUnavailable, got %v", err)
	}
}

func TestText_ConcurrentSamePathSharesExtraction(t *testing.T) {
	release := make(chan struct{})
	dec := &mockDecoder{extractFn: func(_ context.Context, _ string) (string, error) {
		<-release
		return "shared", nil
	}}
	src, _ := newTestSource(t, dec)
	rec := resume.Reconstruct(1, "a", "cv/shared.pdf", "", "", "")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if text, err := src.Text(context.Background(), rec); err != nil || text != "shared" {
				t.Errorf("Text() = (%q, %v)", text, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := dec.calls.Load(); n < 1 || n > 4 {
		t.Errorf("decoder calls = %d", n)
	}
}

func TestLoad_RechecksCacheBeforeDecoding(t *testing.T) {
	dec := &mockDecoder{extractFn: func(_ context.Context, _ string) (string, error) {
		return "decoded again", nil
	}}
	src, cache := newTestSource(t, dec)

	// Another caller finished between this worker's miss and its singleflight turn.
	cache.Store("cv/7.pdf", "Stored By Earlier Worker")

	text, err := src.load(context.Background(), "cv/7.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Stored By Earlier Worker" {
		t.Errorf("load() = %q", text)
	}
	if dec.calls.Load() != 0 {
		t.Errorf("decoder called %d times, want 0", dec.calls.Load())
	}
}

func TestLoad_RechecksFailedPath(t *testing.T) {
	dec := &mockDecoder{}
	src, cache := newTestSource(t, dec)
	cache.MarkFailed("cv/8.pdf")

	_, err := src.load(context.Background(), "cv/8.pdf")
	if !errors.Is(err, domain.ErrTextUnavailable) {
		t.Errorf("expected ErrTextUnavailable, got %v", err)
	}
	if dec.calls.Load() != 0 {
		t.Errorf("decoder called %d times, want 0", dec.calls.Load())
	}
}
