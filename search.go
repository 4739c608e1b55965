package melodex

import (
	"github.com/melodex/melodex/internal/domain/catalog"
	"github.com/melodex/melodex/internal/domain/search/query"
	"github.com/melodex/melodex/internal/domain/search/result"
	"github.com/melodex/melodex/internal/domain/search/suggest"
)

// Result kinds accepted in SearchRequest.Types.
const (
	KindSong     = "song"
	KindArtist   = "artist"
	KindAlbum    = "album"
	KindPlaylist = "playlist"
	KindUser     = "user"
)

// Range is a closed numeric interval; a zero Max means unbounded above.
type Range struct {
	Min float64
	Max float64
}

// Filters narrows a search to structural constraints. The zero value
// matches everything.
type Filters struct {
	Genres       []string
	YearRange    Range
	Duration     Range // seconds
	Popularity   Range // play count
	Energy       Range
	Danceability Range
	ExplicitOnly *bool
	VerifiedOnly bool
}

// SearchRequest describes a catalog search.
type SearchRequest struct {
	Query   string
	Types   []string // empty means all kinds
	Filters Filters
	UserID  string
	Context string // general, playlist, radio, share, voice, similar
	Limit   int
	Offset  int
}

// Response is the search result envelope.
type Response struct {
	Items            []Item
	TotalCount       int
	HasMore          bool
	Suggestions      []Suggestion
	RelatedSearches  []string
	SearchID         string
	ProcessingTimeMs int64
}

// Item is a single ranked hit with exactly one payload set.
type Item struct {
	Kind          string
	ID            string
	Score         float64
	Popularity    int64
	MatchedFields []string
	Highlights    map[string]string

	Song     *Song
	Artist   *Artist
	Album    *Album
	Playlist *Playlist
	User     *User
}

// Song is the song payload.
type Song struct {
	Title       string
	ArtistID    string
	ArtistName  string
	AlbumID     string
	AlbumName   string
	Genre       string
	Year        int
	DurationSec int
	Explicit    bool
	Energy      float64
}

// Artist is the artist payload.
type Artist struct {
	Name     string
	Genres   []string
	Verified bool
}

// Album is the album payload.
type Album struct {
	Title      string
	ArtistID   string
	ArtistName string
	Genre      string
	Year       int
	TrackCount int
}

// Playlist is the playlist payload.
type Playlist struct {
	Name       string
	OwnerID    string
	OwnerName  string
	TrackCount int
	Public     bool
}

// User is the user-profile payload.
type User struct {
	DisplayName string
}

// Suggestion is a suggested query with provenance metadata.
type Suggestion struct {
	Text     string
	Kind     string // completion, correction, trending, personalized, ...
	Metadata map[string]string
}

func (r *SearchRequest) toQuery() (query.Query, error) {
	kinds := make([]catalog.Kind, 0, len(r.Types))
	for _, t := range r.Types {
		kinds = append(kinds, catalog.Kind(t))
	}
	return query.New(
		r.Query, kinds,
		query.Filters{
			Genres:       r.Filters.Genres,
			YearRange:    query.Range(r.Filters.YearRange),
			Duration:     query.Range(r.Filters.Duration),
			Popularity:   query.Range(r.Filters.Popularity),
			Energy:       query.Range(r.Filters.Energy),
			Danceability: query.Range(r.Filters.Danceability),
			ExplicitOnly: r.Filters.ExplicitOnly,
			VerifiedOnly: r.Filters.VerifiedOnly,
		},
		r.UserID, query.Context(r.Context), r.Limit, r.Offset,
	)
}

func responseFromInternal(in result.Response) Response {
	items := make([]Item, len(in.Items))
	for i, it := range in.Items {
		items[i] = itemFromInternal(it)
	}
	return Response{
		Items:            items,
		TotalCount:       in.TotalCount,
		HasMore:          in.HasMore,
		Suggestions:      suggestionsFromInternal(in.Suggestions),
		RelatedSearches:  in.RelatedSearches,
		SearchID:         in.SearchID,
		ProcessingTimeMs: in.ProcessingTimeMs,
	}
}

func itemFromInternal(in result.Item) Item {
	out := Item{
		Kind:          string(in.Kind),
		ID:            in.ID,
		Score:         in.Score,
		Popularity:    in.Popularity,
		MatchedFields: in.MatchedFields,
		Highlights:    in.Highlights,
	}
	switch {
	case in.Song != nil:
		out.Song = &Song{
			Title: in.Song.Title, ArtistID: in.Song.ArtistID, ArtistName: in.Song.ArtistName,
			AlbumID: in.Song.AlbumID, AlbumName: in.Song.AlbumName, Genre: in.Song.Genre,
			Year: in.Song.Year, DurationSec: in.Song.DurationSec, Explicit: in.Song.Explicit,
			Energy: in.Song.Energy,
		}
	case in.Artist != nil:
		out.Artist = &Artist{Name: in.Artist.Name, Genres: in.Artist.Genres, Verified: in.Artist.Verified}
	case in.Album != nil:
		out.Album = &Album{
			Title: in.Album.Title, ArtistID: in.Album.ArtistID, ArtistName: in.Album.ArtistName,
			Genre: in.Album.Genre, Year: in.Album.Year, TrackCount: in.Album.TrackCount,
		}
	case in.Playlist != nil:
		out.Playlist = &Playlist{
			Name: in.Playlist.Name, OwnerID: in.Playlist.OwnerID, OwnerName: in.Playlist.OwnerName,
			TrackCount: in.Playlist.TrackCount, Public: in.Playlist.Public,
		}
	case in.User != nil:
		out.User = &User{DisplayName: in.User.DisplayName}
	}
	return out
}

func suggestionsFromInternal(in []suggest.Suggestion) []Suggestion {
	out := make([]Suggestion, len(in))
	for i, s := range in {
		out[i] = Suggestion{Text: s.Text, Kind: string(s.Kind), Metadata: s.Metadata}
	}
	return out
}
