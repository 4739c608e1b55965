package cache

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
)

func TestGet_MissFetchesAndStores(t *testing.T) {
	store := newMockStore()
	c := New(store, 10, time.Minute, nil)
	f := &countingFetcher{value: []byte("payload")}

	got, err := c.Get(context.Background(), "search:full:abc", time.Minute, Options{}, f.fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, []byte("payload")) {
		t.Errorf("got %q", got)
	}
	if f.callCount() != 1 {
		t.Errorf("fetch calls = %d, want 1", f.callCount())
	}
	if _, ok := store.data["search:full:abc"]; !ok {
		t.Error("value not written to distributed tier")
	}
}

func TestGet_DistributedHitSkipsFetch(t *testing.T) {
	store := newMockStore()
	store.data["k"] = []byte("cached")
	c := New(store, 10, time.Minute, nil)
	f := &countingFetcher{value: []byte("fresh")}

	got, err := c.Get(context.Background(), "k", time.Minute, Options{}, f.fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, []byte("cached")) {
		t.Errorf("got %q, want cached value", got)
	}
	if f.callCount() != 0 {
		t.Errorf("fetch calls = %d, want 0", f.callCount())
	}
}

func TestGet_IdempotentWithinTTL(t *testing.T) {
	store := newMockStore()
	c := New(store, 10, time.Minute, nil)
	f := &countingFetcher{value: []byte(`{"items":[1,2,3]}`)}

	first, err := c.Get(context.Background(), "k", time.Minute, Options{}, f.fetch)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	second, err := c.Get(context.Background(), "k", time.Minute, Options{}, f.fetch)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("payload content changed between gets within TTL")
	}
	if f.callCount() != 1 {
		t.Errorf("fetch calls = %d, want 1", f.callCount())
	}
}

func TestGet_LocalTier(t *testing.T) {
	store := newMockStore()
	c := New(store, 10, time.Minute, nil)
	f := &countingFetcher{value: []byte("v")}
	opts := Options{UseLocal: true}

	if _, err := c.Get(context.Background(), "k", time.Minute, opts, f.fetch); err != nil {
		t.Fatalf("fill: %v", err)
	}
	storeReads := store.getCalls

	if _, err := c.Get(context.Background(), "k", time.Minute, opts, f.fetch); err != nil {
		t.Fatalf("local hit: %v", err)
	}
	if store.getCalls != storeReads {
		t.Error("local hit should not touch the distributed tier")
	}
}

func TestGet_StampedeProtection(t *testing.T) {
	store := newMockStore()
	c := New(store, 10, time.Minute, nil)
	f := &countingFetcher{value: []byte("shared"), delay: 50 * time.Millisecond}
	opts := Options{StampedeProtection: true}

	const n = 16
	var wg sync.WaitGroup
	results := make([][]byte, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Get(context.Background(), "hot", time.Minute, opts, f.fetch)
		}(i)
	}
	wg.Wait()

	if f.callCount() != 1 {
		t.Errorf("fetch calls = %d, want exactly 1 under stampede protection", f.callCount())
	}
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d error: %v", i, errs[i])
		}
		if !bytes.Equal(results[i], []byte("shared")) {
			t.Errorf("caller %d got %q", i, results[i])
		}
	}
}

func TestGet_FetchFailurePropagatesAndUnwedges(t *testing.T) {
	store := newMockStore()
	c := New(store, 10, time.Minute, nil)
	opts := Options{StampedeProtection: true}

	failing := &countingFetcher{err: errFetchFailed}
	if _, err := c.Get(context.Background(), "k", time.Minute, opts, failing.fetch); err == nil {
		t.Fatal("expected fetch error to propagate")
	}

	// The key must not stay wedged in a fetching state.
	ok := &countingFetcher{value: []byte("recovered")}
	got, err := c.Get(context.Background(), "k", time.Minute, opts, ok.fetch)
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if !bytes.Equal(got, []byte("recovered")) {
		t.Errorf("got %q", got)
	}
}

func TestGet_StoreFailureFallsBackToFetch(t *testing.T) {
	store := newMockStore()
	store.getErr = errFetchFailed
	store.setErr = errFetchFailed
	c := New(store, 10, time.Minute, nil)
	f := &countingFetcher{value: []byte("direct")}

	got, err := c.Get(context.Background(), "k", time.Minute, Options{}, f.fetch)
	if err != nil {
		t.Fatalf("cache failure must not surface: %v", err)
	}
	if !bytes.Equal(got, []byte("direct")) {
		t.Errorf("got %q", got)
	}
}

func TestGet_DisabledMode(t *testing.T) {
	c := New(nil, 10, time.Minute, nil)
	f := &countingFetcher{value: []byte("v")}

	for i := 0; i < 3; i++ {
		if _, err := c.Get(context.Background(), "k", time.Minute, Options{}, f.fetch); err != nil {
			t.Fatalf("disabled mode get: %v", err)
		}
	}
	if f.callCount() != 3 {
		t.Errorf("fetch calls = %d, want 3 with cache disabled", f.callCount())
	}
}

func TestInvalidatePattern(t *testing.T) {
	store := newMockStore()
	c := New(store, 10, time.Minute, nil)
	ctx := context.Background()

	c.Set(ctx, "search:full:a", []byte("1"), time.Minute, Options{UseLocal: true})
	c.Set(ctx, "search:full:b", []byte("2"), time.Minute, Options{UseLocal: true})
	c.Set(ctx, "search:autocomplete:c", []byte("3"), time.Minute, Options{UseLocal: true})

	c.InvalidatePattern(ctx, "search:full:*")

	if _, ok := store.data["search:full:a"]; ok {
		t.Error("search:full:a not invalidated")
	}
	if _, ok := store.data["search:autocomplete:c"]; !ok {
		t.Error("search:autocomplete:c wrongly invalidated")
	}
	if _, ok := c.local.Get("search:full:b"); ok {
		t.Error("local tier entry not invalidated")
	}
}

func TestGetBatch(t *testing.T) {
	store := newMockStore()
	store.data["a"] = []byte("1")
	c := New(store, 10, time.Minute, nil)

	var fetchedMissing []string
	got, err := c.GetBatch(context.Background(), []string{"a", "b", "c"}, time.Minute, Options{},
		func(_ context.Context, missing []string) (map[string][]byte, error) {
			fetchedMissing = missing
			out := make(map[string][]byte, len(missing))
			for _, k := range missing {
				out[k] = []byte("fetched-" + k)
			}
			return out, nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d values, want 3", len(got))
	}
	if !bytes.Equal(got["a"], []byte("1")) {
		t.Errorf("cached value overwritten: %q", got["a"])
	}
	if len(fetchedMissing) != 2 {
		t.Errorf("missing = %v, want b and c", fetchedMissing)
	}
	if _, ok := store.data["b"]; !ok {
		t.Error("fetched value not written back")
	}
}
