package query

// Context describes where a search originated; some surfaces tune
// suggestion behavior (voice normalizes more aggressively, radio favors
// artists).
type Context string

const (
	// General is the default search surface.
	General Context = "general"
	// Playlist is search inside the playlist editor.
	Playlist Context = "playlist"
	// Radio is search while seeding a radio station.
	Radio Context = "radio"
	// Share is search from the share sheet.
	Share Context = "share"
	// Voice is a transcribed voice query.
	Voice Context = "voice"
	// Similar is a "more like this" lookup.
	Similar Context = "similar"
)

// IsValid reports whether c is a known search context.
func (c Context) IsValid() bool {
	switch c {
	case General, Playlist, Radio, Share, Voice, Similar:
		return true
	}
	return false
}
