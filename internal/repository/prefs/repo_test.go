package prefs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/melodex/melodex/internal/cache"
)

type mockStore struct {
	hashes   map[string]map[string]string
	err      error
	getCalls int
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hashes[key], nil
}

func newTestRepo(s *mockStore) *Repo {
	return New(s, cache.New(nil, 16, time.Minute, nil), time.Minute)
}

func TestGetParsesProfile(t *testing.T) {
	s := &mockStore{hashes: map[string]map[string]string{
		"user:prefs:u-1": {
			"preferred_genres": "pop, indie",
			"excluded_genres":  "metal",
			"personalization":  "1",
			"language":         "en",
			"allow_explicit":   "0",
		},
	}}

	p, err := newTestRepo(s).Get(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p == nil {
		t.Fatal("expected profile")
	}
	if !p.Prefers("pop") || !p.Prefers("indie") {
		t.Error("preferred genres not parsed")
	}
	if !p.Excludes("metal") {
		t.Error("excluded genres not parsed")
	}
	if !p.Personalization() {
		t.Error("personalization flag not parsed")
	}
	if p.AllowExplicit() {
		t.Error("allow_explicit=0 should disable explicit content")
	}
	if p.Language() != "en" {
		t.Errorf("language = %q", p.Language())
	}
}

func TestGetEmptyUserID(t *testing.T) {
	s := &mockStore{}
	p, err := newTestRepo(s).Get(context.Background(), "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p != nil {
		t.Error("anonymous user must have no profile")
	}
	if s.getCalls != 0 {
		t.Errorf("store consulted %d times for anonymous user", s.getCalls)
	}
}

func TestGetMissingProfile(t *testing.T) {
	s := &mockStore{hashes: map[string]map[string]string{}}
	p, err := newTestRepo(s).Get(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p == nil {
		t.Fatal("missing profile should decode to a zero profile")
	}
	if p.Personalization() {
		t.Error("zero profile must not enable personalization")
	}
	if !p.AllowExplicit() {
		t.Error("explicit content defaults to allowed")
	}
}

func TestGetCachesProfile(t *testing.T) {
	s := &mockStore{hashes: map[string]map[string]string{
		"user:prefs:u-1": {"preferred_genres": "jazz"},
	}}
	r := newTestRepo(s)

	for i := 0; i < 3; i++ {
		if _, err := r.Get(context.Background(), "u-1"); err != nil {
			t.Fatalf("Get #%d: %v", i, err)
		}
	}
	if s.getCalls != 1 {
		t.Errorf("store consulted %d times, cache should absorb repeats", s.getCalls)
	}
}

func TestGetStoreError(t *testing.T) {
	s := &mockStore{err: errors.New("connection refused")}
	if _, err := newTestRepo(s).Get(context.Background(), "u-1"); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
