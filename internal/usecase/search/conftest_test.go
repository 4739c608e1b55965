package search

import (
	"context"
	"sync"
	"time"

	"github.com/melodex/melodex/internal/cache"
	"github.com/melodex/melodex/internal/domain/catalog"
	"github.com/melodex/melodex/internal/domain/prefs"
	"github.com/melodex/melodex/internal/fuzzy"
	"github.com/melodex/melodex/internal/ranking"
	"github.com/melodex/melodex/internal/typo"
)

type mockCatalog struct {
	mu        sync.Mutex
	entities  map[catalog.Kind][]catalog.Entity
	errKinds  map[catalog.Kind]error
	findCalls int
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		entities: make(map[catalog.Kind][]catalog.Entity),
		errKinds: make(map[catalog.Kind]error),
	}
}

func (m *mockCatalog) add(e catalog.Entity) {
	m.entities[e.Kind()] = append(m.entities[e.Kind()], e)
}

func (m *mockCatalog) FindCandidatesByText(
	_ context.Context, kind catalog.Kind, _ string, limit int,
) ([]catalog.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if err := m.errKinds[kind]; err != nil {
		return nil, err
	}
	out := m.entities[kind]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockCatalog) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findCalls
}

type mockPrefs struct {
	profile *prefs.Preferences
	err     error
}

func (m *mockPrefs) Get(_ context.Context, _ string) (*prefs.Preferences, error) {
	return m.profile, m.err
}

type mockHistory struct {
	mu             sync.Mutex
	searchCalls    int
	analyticsCalls int
	trending       []string
	recent         []string
}

func (m *mockHistory) RecordSearch(_ context.Context, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	return nil
}

func (m *mockHistory) RecordAnalytics(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyticsCalls++
	return nil
}

func (m *mockHistory) TopTerms(_ context.Context, n int) ([]string, error) {
	if n < len(m.trending) {
		return m.trending[:n], nil
	}
	return m.trending, nil
}

func (m *mockHistory) RecentSearches(_ context.Context, _ string, n int) ([]string, error) {
	if n < len(m.recent) {
		return m.recent[:n], nil
	}
	return m.recent, nil
}

// waitForAnalytics polls for the detached analytics write.
func (m *mockHistory) waitForAnalytics(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		n := m.analyticsCalls
		m.mu.Unlock()
		if n > 0 {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

type mockCorrector struct {
	mu          sync.Mutex
	calls       int
	corrections []typo.Correction
	err         error
}

func (m *mockCorrector) GenerateSuggestions(_ context.Context, _ string, _ int) ([]typo.Correction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.corrections, nil
}

func (m *mockCorrector) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// fakeCache is a deterministic in-memory Cache with fetch accounting.
type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	fetches int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(
	ctx context.Context, key string, _ time.Duration, _ cache.Options, fetch cache.Fetcher,
) ([]byte, error) {
	f.mu.Lock()
	if v, ok := f.data[key]; ok {
		f.mu.Unlock()
		return v, nil
	}
	f.mu.Unlock()

	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()
	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.data[key] = v
	f.mu.Unlock()
	return v, nil
}

type testDeps struct {
	catalog   *mockCatalog
	prefs     *mockPrefs
	history   *mockHistory
	corrector *mockCorrector
	cache     *fakeCache
}

func newTestService(cfg Config) (*Service, *testDeps) {
	d := &testDeps{
		catalog:   newMockCatalog(),
		prefs:     &mockPrefs{},
		history:   &mockHistory{},
		corrector: &mockCorrector{},
		cache:     newFakeCache(),
	}
	svc := New(
		d.catalog, d.prefs, d.history, d.cache, d.corrector,
		fuzzy.New(fuzzy.Config{}), ranking.New(ranking.Config{}), cfg, nil,
	)
	return svc, d
}

func testSong(id, title, artist, genre string, playCount int64) catalog.Entity {
	s := catalog.ReconstructSong(
		id, title, "ar-"+id, artist, "", "", genre,
		2020, 200, playCount, false, catalog.AudioFeatures{},
	)
	return &s
}

func testArtist(id, name string, genres []string, playCount int64) catalog.Entity {
	a := catalog.ReconstructArtist(id, name, genres, playCount, true)
	return &a
}
