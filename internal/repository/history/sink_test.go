package history

import (
	"context"
	"errors"
	"testing"

	"github.com/melodex/melodex/internal/db"
)

type mockStore struct {
	lists      map[string][]string
	scores     map[string]map[string]float64
	counters   map[string]int64
	err        error
	trimCalls  int
	pushCalls  int
	zincrCalls int
}

func newMockStore() *mockStore {
	return &mockStore{
		lists:    make(map[string][]string),
		scores:   make(map[string]map[string]float64),
		counters: make(map[string]int64),
	}
}

func (m *mockStore) LPush(_ context.Context, key string, values ...string) error {
	m.pushCalls++
	if m.err != nil {
		return m.err
	}
	m.lists[key] = append(values, m.lists[key]...)
	return nil
}

func (m *mockStore) LTrim(_ context.Context, key string, start, stop int64) error {
	m.trimCalls++
	if m.err != nil {
		return m.err
	}
	l := m.lists[key]
	if stop >= int64(len(l)) {
		stop = int64(len(l)) - 1
	}
	if start > stop {
		m.lists[key] = nil
		return nil
	}
	m.lists[key] = l[start : stop+1]
	return nil
}

func (m *mockStore) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	l := m.lists[key]
	if stop >= int64(len(l)) {
		stop = int64(len(l)) - 1
	}
	if start > stop {
		return nil, nil
	}
	return l[start : stop+1], nil
}

func (m *mockStore) ZIncrBy(_ context.Context, key, member string, delta float64) error {
	m.zincrCalls++
	if m.err != nil {
		return m.err
	}
	if m.scores[key] == nil {
		m.scores[key] = make(map[string]float64)
	}
	m.scores[key][member] += delta
	return nil
}

func (m *mockStore) ZTop(_ context.Context, key string, n int) ([]db.ScoredMember, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []db.ScoredMember
	for member, score := range m.scores[key] {
		out = append(out, db.ScoredMember{Member: member, Score: score})
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Score > out[i].Score {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if n < len(out) {
		out = out[:n]
	}
	return out, nil
}

func (m *mockStore) IncrBy(_ context.Context, key string, val int64) error {
	if m.err != nil {
		return m.err
	}
	m.counters[key] += val
	return nil
}

func TestRecordSearch(t *testing.T) {
	s := newMockStore()
	sink := New(s, 3)

	for _, term := range []string{"first", "second", "third", "fourth"} {
		if err := sink.RecordSearch(context.Background(), "u-1", term); err != nil {
			t.Fatalf("RecordSearch: %v", err)
		}
	}

	got := s.lists["user:history:u-1"]
	want := []string{"fourth", "third", "second"}
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecordSearchAnonymous(t *testing.T) {
	s := newMockStore()
	if err := New(s, 10).RecordSearch(context.Background(), "", "anything"); err != nil {
		t.Fatalf("RecordSearch: %v", err)
	}
	if s.pushCalls != 0 {
		t.Error("anonymous search must not be recorded")
	}
}

func TestRecordAnalytics(t *testing.T) {
	s := newMockStore()
	sink := New(s, 10)

	for _, term := range []string{"Taylor Swift", "taylor swift", "daft punk"} {
		if err := sink.RecordAnalytics(context.Background(), term); err != nil {
			t.Fatalf("RecordAnalytics: %v", err)
		}
	}

	if got := s.scores[trendingKey]["taylor swift"]; got != 2 {
		t.Errorf("case variants must share one trending entry, score = %v", got)
	}
	if got := s.counters[statsKey]; got != 3 {
		t.Errorf("query counter = %d, want 3", got)
	}
}

func TestRecordAnalyticsEmptyTerm(t *testing.T) {
	s := newMockStore()
	if err := New(s, 10).RecordAnalytics(context.Background(), "   "); err != nil {
		t.Fatalf("RecordAnalytics: %v", err)
	}
	if s.zincrCalls != 0 {
		t.Error("blank term must not reach the leaderboard")
	}
}

func TestTopTerms(t *testing.T) {
	s := newMockStore()
	s.scores[trendingKey] = map[string]float64{"adele": 5, "beatles": 12, "coldplay": 2}

	got, err := New(s, 10).TopTerms(context.Background(), 2)
	if err != nil {
		t.Fatalf("TopTerms: %v", err)
	}
	if len(got) != 2 || got[0] != "beatles" || got[1] != "adele" {
		t.Errorf("TopTerms = %v, want [beatles adele]", got)
	}
}

func TestRecentSearches(t *testing.T) {
	s := newMockStore()
	s.lists["user:history:u-1"] = []string{"newest", "older", "oldest"}

	got, err := New(s, 10).RecentSearches(context.Background(), "u-1", 2)
	if err != nil {
		t.Fatalf("RecentSearches: %v", err)
	}
	if len(got) != 2 || got[0] != "newest" {
		t.Errorf("RecentSearches = %v", got)
	}
}

func TestStoreErrorPropagates(t *testing.T) {
	s := newMockStore()
	s.err = errors.New("connection reset")
	sink := New(s, 10)

	if err := sink.RecordSearch(context.Background(), "u-1", "term"); err == nil {
		t.Error("RecordSearch should surface store errors")
	}
	if err := sink.RecordAnalytics(context.Background(), "term"); err == nil {
		t.Error("RecordAnalytics should surface store errors")
	}
	if _, err := sink.TopTerms(context.Background(), 3); err == nil {
		t.Error("TopTerms should surface store errors")
	}
}
