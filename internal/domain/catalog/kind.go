package catalog

// Kind discriminates the entity variants a search can return.
type Kind string

const (
	// KindSong is a single track.
	KindSong Kind = "song"
	// KindArtist is a performing artist.
	KindArtist Kind = "artist"
	// KindAlbum is an album release.
	KindAlbum Kind = "album"
	// KindPlaylist is a user-curated playlist.
	KindPlaylist Kind = "playlist"
	// KindUser is a platform user profile.
	KindUser Kind = "user"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindSong, KindArtist, KindAlbum, KindPlaylist, KindUser:
		return true
	}
	return false
}

// Searchable returns the kinds served by catalog retrieval, in the order
// results are fetched. User profiles live outside the catalog store.
func Searchable() []Kind {
	return []Kind{KindSong, KindArtist, KindAlbum, KindPlaylist}
}
