package domain

// Cache and storage key namespaces. Pattern invalidation depends on
// these prefixes staying stable: invalidating "search:full:*" must not
// touch "search:autocomplete:*".
const (
	KeySearch   = "search:"
	KeyUser     = "user:"
	KeySong     = "song:"
	KeyArtist   = "artist:"
	KeyAlbum    = "album:"
	KeyPlaylist = "playlist:"
)

// Operation prefixes appended to a namespace.
const (
	OpFull         = "full:"
	OpByType       = "bytype:"
	OpAutocomplete = "autocomplete:"
	OpTrending     = "trending:"
	OpSimilar      = "similar:"
	OpPrefs        = "prefs:"
	OpHistory      = "history:"
)
