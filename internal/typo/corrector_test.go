package typo

import (
	"context"
	"errors"
	"testing"
)

type mockSource struct {
	names   []string
	err     error
	calls   int
	lastMax int
}

func (m *mockSource) SampleNames(_ context.Context, max int) ([]string, error) {
	m.calls++
	m.lastMax = max
	return m.names, m.err
}

func TestSuggestCorrections(t *testing.T) {
	c := New(nil, Config{})
	dict := []string{"taylor", "tailor", "trailer", "swift", "taylor"}

	got := c.SuggestCorrections("tayler", dict, 10)
	if len(got) < 2 {
		t.Fatalf("got %d corrections, want at least 2", len(got))
	}
	// Sorted ascending by distance.
	for i := 1; i < len(got); i++ {
		if got[i].Distance < got[i-1].Distance {
			t.Errorf("corrections not sorted by distance: %v", got)
		}
	}
	if got[0].Word != "taylor" {
		t.Errorf("closest correction = %q, want taylor", got[0].Word)
	}
}

func TestSuggestCorrections_ExcludesTermItself(t *testing.T) {
	c := New(nil, Config{})
	got := c.SuggestCorrections("taylor", []string{"taylor", "tailor"}, 10)
	for _, corr := range got {
		if corr.Word == "taylor" {
			t.Error("correction list must not include the original term")
		}
	}
}

func TestSuggestCorrections_RejectsShortCandidates(t *testing.T) {
	c := New(nil, Config{})
	if got := c.SuggestCorrections("cat", []string{"ca", "at", "cab"}, 10); len(got) != 1 {
		t.Errorf("got %v, want only %q", got, "cab")
	}
	if got := c.SuggestCorrections("ab", []string{"abc", "abd"}, 10); got != nil {
		t.Errorf("short term should yield nil, got %v", got)
	}
}

func TestSuggestCorrections_Threshold(t *testing.T) {
	c := New(nil, Config{EditThreshold: 1})
	got := c.SuggestCorrections("taylor", []string{"tayler", "trailer"}, 10)
	if len(got) != 1 || got[0].Word != "tayler" {
		t.Errorf("got %v, want only tayler within distance 1", got)
	}
}

func TestSuggestCorrections_Truncation(t *testing.T) {
	c := New(nil, Config{})
	dict := []string{"tayler", "taylar", "taylor", "tailor"}
	if got := c.SuggestCorrections("taylir", dict, 2); len(got) != 2 {
		t.Errorf("got %d corrections, want 2", len(got))
	}
}

func TestGenerateSuggestions_TokenizesNames(t *testing.T) {
	src := &mockSource{names: []string{"Taylor Swift", "The National"}}
	c := New(src, Config{SampleCap: 100})

	got, err := c.GenerateSuggestions(context.Background(), "tayler", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("SampleNames calls = %d, want 1", src.calls)
	}
	if src.lastMax != 100 {
		t.Errorf("sample cap = %d, want 100", src.lastMax)
	}
	found := false
	for _, corr := range got {
		if corr.Word == "taylor" {
			found = true
		}
	}
	if !found {
		t.Errorf("corrections %v missing tokenized word taylor", got)
	}
}

func TestGenerateSuggestions_SamplingFailure(t *testing.T) {
	src := &mockSource{err: errors.New("store down")}
	c := New(src, Config{})

	got, err := c.GenerateSuggestions(context.Background(), "tayler", 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if got != nil {
		t.Errorf("corrections = %v, want nil on failure", got)
	}
}
