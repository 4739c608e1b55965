package melodex

import (
	"errors"
	"testing"
	"time"

	"github.com/melodex/melodex/internal/domain"
	"github.com/melodex/melodex/internal/domain/catalog"
	"github.com/melodex/melodex/internal/domain/search/result"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithRedis("localhost:6379")(cfg)
	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v", cfg.addrs)
	}

	WithPassword("secret")(cfg)
	if cfg.password != "secret" {
		t.Errorf("password = %q", cfg.password)
	}

	WithCache(512, 30*time.Second)(cfg)
	if !cfg.cacheEnabled || cfg.localEntries != 512 || cfg.localTTL != 30*time.Second {
		t.Errorf("cache config = %+v", cfg)
	}

	WithSearchConfig(SearchConfig{MaxSuggestions: 8})(cfg)
	if cfg.search.MaxSuggestions != 8 {
		t.Errorf("search config = %+v", cfg.search)
	}
}

func TestSearchRequestToQuery(t *testing.T) {
	req := SearchRequest{
		Query:  "taylor",
		Types:  []string{KindArtist, KindSong},
		UserID: "u-1",
		Limit:  10,
	}
	q, err := req.toQuery()
	if err != nil {
		t.Fatalf("toQuery: %v", err)
	}
	if q.Text() != "taylor" || q.Limit() != 10 || q.UserID() != "u-1" {
		t.Errorf("query = %+v", q)
	}
	if len(q.Kinds()) != 2 {
		t.Errorf("kinds = %v", q.Kinds())
	}
}

func TestSearchRequestToQuery_InvalidType(t *testing.T) {
	req := SearchRequest{Query: "taylor", Types: []string{"podcast"}}
	_, err := req.toQuery()
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestItemFromInternal(t *testing.T) {
	in := result.Item{
		Kind:       catalog.KindSong,
		ID:         "s-1",
		Score:      1.5,
		Popularity: 1000,
		Song: &result.SongPayload{
			Title: "Shake It Off", ArtistName: "Taylor Swift", Genre: "pop",
		},
	}
	out := itemFromInternal(in)
	if out.Kind != "song" || out.ID != "s-1" || out.Score != 1.5 {
		t.Errorf("item = %+v", out)
	}
	if out.Song == nil || out.Song.Title != "Shake It Off" {
		t.Errorf("song payload = %+v", out.Song)
	}
	if out.Artist != nil || out.Album != nil || out.Playlist != nil || out.User != nil {
		t.Error("exactly one payload must be set")
	}
}
