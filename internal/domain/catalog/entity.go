package catalog

// AudioFeatures holds the acoustic profile of a song, each value in [0,1]
// except tempo (BPM).
type AudioFeatures struct {
	Energy       float64
	Danceability float64
	Valence      float64
	Acousticness float64
	Tempo        float64
}

// Entity is the common surface of catalog records fed to matching and
// ranking. SearchFields maps field name to its text value; Name is the
// primary display field.
type Entity interface {
	ID() string
	Kind() Kind
	Name() string
	Genre() string
	PlayCount() int64
	SearchFields() map[string]string
}

// Song is a single track record rehydrated from the catalog store.
type Song struct {
	id          string
	title       string
	artistID    string
	artistName  string
	albumID     string
	albumName   string
	genre       string
	year        int
	durationSec int
	playCount   int64
	explicit    bool
	features    AudioFeatures
}

// ReconstructSong rehydrates a Song from storage.
func ReconstructSong(
	id, title, artistID, artistName, albumID, albumName, genre string,
	year, durationSec int, playCount int64, explicit bool, features AudioFeatures,
) Song {
	return Song{
		id: id, title: title,
		artistID: artistID, artistName: artistName,
		albumID: albumID, albumName: albumName,
		genre: genre, year: year, durationSec: durationSec,
		playCount: playCount, explicit: explicit, features: features,
	}
}

// ID returns the song identifier.
func (s *Song) ID() string { return s.id }

// Kind returns KindSong.
func (s *Song) Kind() Kind { return KindSong }

// Name returns the song title.
func (s *Song) Name() string { return s.title }

// Genre returns the song genre.
func (s *Song) Genre() string { return s.genre }

// PlayCount returns the total play count.
func (s *Song) PlayCount() int64 { return s.playCount }

// ArtistID returns the performing artist identifier.
func (s *Song) ArtistID() string { return s.artistID }

// ArtistName returns the performing artist name.
func (s *Song) ArtistName() string { return s.artistName }

// AlbumID returns the album identifier.
func (s *Song) AlbumID() string { return s.albumID }

// AlbumName returns the album title.
func (s *Song) AlbumName() string { return s.albumName }

// Year returns the release year.
func (s *Song) Year() int { return s.year }

// DurationSec returns the track duration in seconds.
func (s *Song) DurationSec() int { return s.durationSec }

// Explicit reports whether the track carries an explicit-content flag.
func (s *Song) Explicit() bool { return s.explicit }

// Features returns the acoustic profile.
func (s *Song) Features() AudioFeatures { return s.features }

// SearchFields returns the matchable text fields of a song.
func (s *Song) SearchFields() map[string]string {
	return map[string]string{
		"title":  s.title,
		"artist": s.artistName,
		"album":  s.albumName,
	}
}

// Artist is a performing artist record.
type Artist struct {
	id        string
	name      string
	genres    []string
	playCount int64
	verified  bool
}

// ReconstructArtist rehydrates an Artist from storage.
func ReconstructArtist(id, name string, genres []string, playCount int64, verified bool) Artist {
	return Artist{id: id, name: name, genres: genres, playCount: playCount, verified: verified}
}

// ID returns the artist identifier.
func (a *Artist) ID() string { return a.id }

// Kind returns KindArtist.
func (a *Artist) Kind() Kind { return KindArtist }

// Name returns the artist name.
func (a *Artist) Name() string { return a.name }

// Genre returns the primary genre, or "" when the artist has none.
func (a *Artist) Genre() string {
	if len(a.genres) == 0 {
		return ""
	}
	return a.genres[0]
}

// Genres returns all genres attributed to the artist.
func (a *Artist) Genres() []string { return a.genres }

// PlayCount returns the aggregate play count across the artist's tracks.
func (a *Artist) PlayCount() int64 { return a.playCount }

// Verified reports whether the artist profile is verified.
func (a *Artist) Verified() bool { return a.verified }

// SearchFields returns the matchable text fields of an artist.
func (a *Artist) SearchFields() map[string]string {
	return map[string]string{"name": a.name}
}

// Album is an album release record.
type Album struct {
	id         string
	title      string
	artistID   string
	artistName string
	genre      string
	year       int
	trackCount int
	playCount  int64
}

// ReconstructAlbum rehydrates an Album from storage.
func ReconstructAlbum(
	id, title, artistID, artistName, genre string,
	year, trackCount int, playCount int64,
) Album {
	return Album{
		id: id, title: title, artistID: artistID, artistName: artistName,
		genre: genre, year: year, trackCount: trackCount, playCount: playCount,
	}
}

// ID returns the album identifier.
func (a *Album) ID() string { return a.id }

// Kind returns KindAlbum.
func (a *Album) Kind() Kind { return KindAlbum }

// Name returns the album title.
func (a *Album) Name() string { return a.title }

// Genre returns the album genre.
func (a *Album) Genre() string { return a.genre }

// PlayCount returns the aggregate play count of the album's tracks.
func (a *Album) PlayCount() int64 { return a.playCount }

// ArtistID returns the album artist identifier.
func (a *Album) ArtistID() string { return a.artistID }

// ArtistName returns the album artist name.
func (a *Album) ArtistName() string { return a.artistName }

// Year returns the release year.
func (a *Album) Year() int { return a.year }

// TrackCount returns the number of tracks on the album.
func (a *Album) TrackCount() int { return a.trackCount }

// SearchFields returns the matchable text fields of an album.
func (a *Album) SearchFields() map[string]string {
	return map[string]string{
		"title":  a.title,
		"artist": a.artistName,
	}
}

// Playlist is a user-curated playlist record.
type Playlist struct {
	id            string
	name          string
	ownerID       string
	ownerName     string
	genre         string
	trackCount    int
	followerCount int64
	public        bool
}

// ReconstructPlaylist rehydrates a Playlist from storage.
func ReconstructPlaylist(
	id, name, ownerID, ownerName, genre string,
	trackCount int, followerCount int64, public bool,
) Playlist {
	return Playlist{
		id: id, name: name, ownerID: ownerID, ownerName: ownerName,
		genre: genre, trackCount: trackCount, followerCount: followerCount, public: public,
	}
}

// ID returns the playlist identifier.
func (p *Playlist) ID() string { return p.id }

// Kind returns KindPlaylist.
func (p *Playlist) Kind() Kind { return KindPlaylist }

// Name returns the playlist name.
func (p *Playlist) Name() string { return p.name }

// Genre returns the dominant genre of the playlist.
func (p *Playlist) Genre() string { return p.genre }

// PlayCount returns the follower count, the popularity signal for playlists.
func (p *Playlist) PlayCount() int64 { return p.followerCount }

// OwnerID returns the owning user identifier.
func (p *Playlist) OwnerID() string { return p.ownerID }

// OwnerName returns the owning user display name.
func (p *Playlist) OwnerName() string { return p.ownerName }

// TrackCount returns the number of tracks in the playlist.
func (p *Playlist) TrackCount() int { return p.trackCount }

// Public reports whether the playlist is publicly visible.
func (p *Playlist) Public() bool { return p.public }

// SearchFields returns the matchable text fields of a playlist.
func (p *Playlist) SearchFields() map[string]string {
	return map[string]string{
		"name":  p.name,
		"owner": p.ownerName,
	}
}
