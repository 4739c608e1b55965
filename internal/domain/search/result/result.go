package result

import (
	"sort"

	"github.com/melodex/melodex/internal/domain/catalog"
)

// Item is a single ranked search hit: a kind tag, the shared scoring
// envelope, and exactly one variant payload matching the tag. Exported
// fields keep cached response content directly serializable.
type Item struct {
	Kind          catalog.Kind      `json:"kind"`
	ID            string            `json:"id"`
	Score         float64           `json:"score"`
	Popularity    int64             `json:"popularity"`
	MatchedFields []string          `json:"matchedFields,omitempty"`
	Highlights    map[string]string `json:"highlights,omitempty"`

	Song     *SongPayload     `json:"song,omitempty"`
	Artist   *ArtistPayload   `json:"artist,omitempty"`
	Album    *AlbumPayload    `json:"album,omitempty"`
	Playlist *PlaylistPayload `json:"playlist,omitempty"`
	User     *UserPayload     `json:"user,omitempty"`
}

// SongPayload carries the song variant fields.
type SongPayload struct {
	Title       string  `json:"title"`
	ArtistID    string  `json:"artistId"`
	ArtistName  string  `json:"artistName"`
	AlbumID     string  `json:"albumId,omitempty"`
	AlbumName   string  `json:"albumName,omitempty"`
	Genre       string  `json:"genre,omitempty"`
	Year        int     `json:"year,omitempty"`
	DurationSec int     `json:"durationSec,omitempty"`
	Explicit    bool    `json:"explicit,omitempty"`
	Energy      float64 `json:"energy,omitempty"`
}

// ArtistPayload carries the artist variant fields.
type ArtistPayload struct {
	Name     string   `json:"name"`
	Genres   []string `json:"genres,omitempty"`
	Verified bool     `json:"verified,omitempty"`
}

// AlbumPayload carries the album variant fields.
type AlbumPayload struct {
	Title      string `json:"title"`
	ArtistID   string `json:"artistId"`
	ArtistName string `json:"artistName"`
	Genre      string `json:"genre,omitempty"`
	Year       int    `json:"year,omitempty"`
	TrackCount int    `json:"trackCount,omitempty"`
}

// PlaylistPayload carries the playlist variant fields.
type PlaylistPayload struct {
	Name       string `json:"name"`
	OwnerID    string `json:"ownerId"`
	OwnerName  string `json:"ownerName,omitempty"`
	TrackCount int    `json:"trackCount,omitempty"`
	Public     bool   `json:"public,omitempty"`
}

// UserPayload carries the user variant fields.
type UserPayload struct {
	DisplayName string `json:"displayName"`
}

// FromEntity builds an Item for a catalog entity with its scoring
// envelope.
func FromEntity(e catalog.Entity, score float64, matchedFields []string, highlights map[string]string) Item {
	item := Item{
		Kind:          e.Kind(),
		ID:            e.ID(),
		Score:         score,
		Popularity:    e.PlayCount(),
		MatchedFields: matchedFields,
		Highlights:    highlights,
	}
	switch v := e.(type) {
	case *catalog.Song:
		item.Song = &SongPayload{
			Title: v.Name(), ArtistID: v.ArtistID(), ArtistName: v.ArtistName(),
			AlbumID: v.AlbumID(), AlbumName: v.AlbumName(), Genre: v.Genre(),
			Year: v.Year(), DurationSec: v.DurationSec(), Explicit: v.Explicit(),
			Energy: v.Features().Energy,
		}
	case *catalog.Artist:
		item.Artist = &ArtistPayload{Name: v.Name(), Genres: v.Genres(), Verified: v.Verified()}
	case *catalog.Album:
		item.Album = &AlbumPayload{
			Title: v.Name(), ArtistID: v.ArtistID(), ArtistName: v.ArtistName(),
			Genre: v.Genre(), Year: v.Year(), TrackCount: v.TrackCount(),
		}
	case *catalog.Playlist:
		item.Playlist = &PlaylistPayload{
			Name: v.Name(), OwnerID: v.OwnerID(), OwnerName: v.OwnerName(),
			TrackCount: v.TrackCount(), Public: v.Public(),
		}
	}
	return item
}

// Sort orders items by score descending with a deterministic tie-break
// (popularity descending, then id ascending) so pagination is stable
// across identical requests.
func Sort(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		if items[i].Popularity != items[j].Popularity {
			return items[i].Popularity > items[j].Popularity
		}
		return items[i].ID < items[j].ID
	})
}

// Paginate applies offset and limit to an already-sorted item slice.
func Paginate(items []Item, limit, offset int) []Item {
	if offset >= len(items) {
		return []Item{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
