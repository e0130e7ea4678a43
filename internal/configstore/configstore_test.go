package configstore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/cache"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/models"
)

type stubBackend struct {
	mu    sync.Mutex
	blobs map[string][]byte

	gets    int64
	upserts int64

	// gate, when set, blocks GetConfiguration until closed.
	gate    chan struct{}
	arrived chan struct{}
}

func newStubBackend() *stubBackend {
	return &stubBackend{blobs: map[string][]byte{}}
}

func (s *stubBackend) key(tenantID, typ string) string { return tenantID + "/" + typ }

func (s *stubBackend) GetConfiguration(ctx context.Context, tenantID, typ string) (*models.Configuration, error) {
	atomic.AddInt64(&s.gets, 1)
	if s.arrived != nil {
		select {
		case s.arrived <- struct{}{}:
		default:
		}
	}
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[s.key(tenantID, typ)]
	if !ok {
		return nil, nil
	}
	return &models.Configuration{
		TenantID: tenantID,
		Type:     typ,
		Value:    datatypes.JSON(b),
	}, nil
}

func (s *stubBackend) UpsertConfiguration(ctx context.Context, item *models.Configuration) error {
	atomic.AddInt64(&s.upserts, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[s.key(item.TenantID, item.Type)] = []byte(item.Value)
	return nil
}

func (s *stubBackend) DeleteConfiguration(ctx context.Context, tenantID, typ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, s.key(tenantID, typ))
	return nil
}

func TestGet_CoalescesConcurrentReads(t *testing.T) {
	backend := newStubBackend()
	backend.blobs["t1/markup_blocks"] = []byte(`{"x":1}`)
	backend.gate = make(chan struct{})
	backend.arrived = make(chan struct{}, 1)

	store := New(backend, cache.NewMemoryStore(), time.Minute, nil)

	const workers = 10
	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, found, err := store.Get(context.Background(), "t1", "markup_blocks")
			if err != nil || !found {
				results <- ""
				return
			}
			results <- string(b)
		}()
	}

	// Wait for the first fetch to reach the backend, give the remaining
	// goroutines a moment to pile onto the pending entry, then release.
	<-backend.arrived
	time.Sleep(20 * time.Millisecond)
	close(backend.gate)
	wg.Wait()
	close(results)

	for r := range results {
		if r != `{"x":1}` {
			t.Fatalf("worker got %q, want the shared blob", r)
		}
	}
	if got := atomic.LoadInt64(&backend.gets); got != 1 {
		t.Fatalf("backend gets = %d, want 1 (coalesced)", got)
	}
}

func TestGet_ServesFromCacheWithinTTL(t *testing.T) {
	backend := newStubBackend()
	backend.blobs["t1/revenue_period"] = []byte(`{"kind":"all"}`)
	store := New(backend, cache.NewMemoryStore(), time.Minute, nil)

	for i := 0; i < 5; i++ {
		if _, found, err := store.Get(context.Background(), "t1", "revenue_period"); err != nil || !found {
			t.Fatalf("get %d: found=%v err=%v", i, found, err)
		}
	}
	if got := atomic.LoadInt64(&backend.gets); got != 1 {
		t.Fatalf("backend gets = %d, want 1", got)
	}
}

func TestGet_CachesAbsence(t *testing.T) {
	backend := newStubBackend()
	store := New(backend, cache.NewMemoryStore(), time.Minute, nil)

	for i := 0; i < 3; i++ {
		if _, found, _ := store.Get(context.Background(), "t1", "missing"); found {
			t.Fatalf("get %d: expected found=false", i)
		}
	}
	if got := atomic.LoadInt64(&backend.gets); got != 1 {
		t.Fatalf("backend gets = %d, want 1", got)
	}
}

func TestPut_RepopulatesCache(t *testing.T) {
	backend := newStubBackend()
	store := New(backend, cache.NewMemoryStore(), time.Minute, nil)

	if err := store.Put(context.Background(), "t1", "markup_blocks", []byte(`[1,2]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	b, found, err := store.Get(context.Background(), "t1", "markup_blocks")
	if err != nil || !found {
		t.Fatalf("get after put: found=%v err=%v", found, err)
	}
	if string(b) != `[1,2]` {
		t.Fatalf("got %q, want just-written value", b)
	}
	// The read must have been served by the cache the write refreshed.
	if got := atomic.LoadInt64(&backend.gets); got != 0 {
		t.Fatalf("backend gets = %d, want 0", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	backend := newStubBackend()
	store := New(backend, cache.NewMemoryStore(), time.Minute, nil)

	in := map[string]bool{"a": true, "b": false}
	if err := store.PutJSON(context.Background(), "t1", "markup_selection.s1", in); err != nil {
		t.Fatalf("put: %v", err)
	}
	var out map[string]bool
	found, err := store.GetJSON(context.Background(), "t1", "markup_selection.s1", &out)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if len(out) != 2 || !out["a"] || out["b"] {
		t.Fatalf("round trip mismatch: %v", out)
	}
}
