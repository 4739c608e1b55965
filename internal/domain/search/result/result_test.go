package result

import (
	"testing"

	"github.com/melodex/melodex/internal/domain/catalog"
)

func TestSort_DeterministicTieBreak(t *testing.T) {
	items := []Item{
		{ID: "c", Score: 1.0, Popularity: 100},
		{ID: "a", Score: 2.0, Popularity: 10},
		{ID: "b", Score: 1.0, Popularity: 100},
		{ID: "d", Score: 1.0, Popularity: 500},
	}
	Sort(items)

	wantOrder := []string{"a", "d", "b", "c"}
	for i, want := range wantOrder {
		if items[i].ID != want {
			t.Fatalf("position %d: got %s, want %s (order %v)", i, items[i].ID, want, ids(items))
		}
	}
}

func TestPaginate(t *testing.T) {
	items := []Item{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}}

	tests := []struct {
		name   string
		limit  int
		offset int
		want   []string
	}{
		{name: "first page", limit: 2, offset: 0, want: []string{"a", "b"}},
		{name: "middle page", limit: 2, offset: 2, want: []string{"c", "d"}},
		{name: "partial last page", limit: 3, offset: 3, want: []string{"d", "e"}},
		{name: "offset past end", limit: 2, offset: 10, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.limit, tt.offset)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", ids(got), tt.want)
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Fatalf("got %v, want %v", ids(got), tt.want)
				}
			}
		})
	}
}

func TestFromEntity(t *testing.T) {
	song := catalog.ReconstructSong(
		"s-1", "Shake It Off", "a-1", "Taylor Swift", "al-1", "1989", "pop",
		2014, 219, 5000, false, catalog.AudioFeatures{Energy: 0.8},
	)
	item := FromEntity(&song, 1.5, []string{"title"}, map[string]string{"title": "<em>Shake</em> It Off"})

	if item.Kind != catalog.KindSong || item.ID != "s-1" {
		t.Errorf("envelope = %+v", item)
	}
	if item.Score != 1.5 || item.Popularity != 5000 {
		t.Errorf("score/popularity = %g/%d", item.Score, item.Popularity)
	}
	if item.Song == nil || item.Song.Title != "Shake It Off" || item.Song.Energy != 0.8 {
		t.Errorf("song payload = %+v", item.Song)
	}
	if item.Highlights["title"] != "<em>Shake</em> It Off" {
		t.Errorf("highlights = %v", item.Highlights)
	}

	artist := catalog.ReconstructArtist("a-1", "Taylor Swift", []string{"pop", "country"}, 90000, true)
	item = FromEntity(&artist, 2.0, nil, nil)
	if item.Artist == nil || !item.Artist.Verified || len(item.Artist.Genres) != 2 {
		t.Errorf("artist payload = %+v", item.Artist)
	}

	playlist := catalog.ReconstructPlaylist("p-1", "Road Trip", "u-1", "alex", "rock", 42, 300, true)
	item = FromEntity(&playlist, 0.5, nil, nil)
	if item.Playlist == nil || item.Playlist.TrackCount != 42 || item.Popularity != 300 {
		t.Errorf("playlist payload = %+v", item.Playlist)
	}
}

func TestEmpty(t *testing.T) {
	r := Empty("sid-1")
	if r.SearchID != "sid-1" || r.TotalCount != 0 || r.HasMore {
		t.Errorf("empty = %+v", r)
	}
	if r.Items == nil || r.Suggestions == nil || r.RelatedSearches == nil {
		t.Error("empty slices must serialize as [], not null")
	}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
