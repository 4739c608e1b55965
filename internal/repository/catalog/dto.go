package catalog

import (
	"strconv"
	"strings"

	domcat "github.com/melodex/melodex/internal/domain/catalog"
)

// Hash field layout for catalog records. Entities are stored as Redis
// hashes under "<kind>:<id>".

func songFromHash(id string, m map[string]string) domcat.Song {
	return domcat.ReconstructSong(
		id,
		m["title"],
		m["artist_id"], m["artist_name"],
		m["album_id"], m["album_name"],
		m["genre"],
		parseInt(m["year"]), parseInt(m["duration_sec"]),
		parseInt64(m["play_count"]),
		m["explicit"] == "1",
		domcat.AudioFeatures{
			Energy:       parseFloat(m["energy"]),
			Danceability: parseFloat(m["danceability"]),
			Valence:      parseFloat(m["valence"]),
			Acousticness: parseFloat(m["acousticness"]),
			Tempo:        parseFloat(m["tempo"]),
		},
	)
}

func artistFromHash(id string, m map[string]string) domcat.Artist {
	var genres []string
	if raw := m["genres"]; raw != "" {
		for _, g := range strings.Split(raw, ",") {
			if g = strings.TrimSpace(g); g != "" {
				genres = append(genres, g)
			}
		}
	}
	return domcat.ReconstructArtist(
		id, m["name"], genres,
		parseInt64(m["play_count"]),
		m["verified"] == "1",
	)
}

func albumFromHash(id string, m map[string]string) domcat.Album {
	return domcat.ReconstructAlbum(
		id, m["title"],
		m["artist_id"], m["artist_name"],
		m["genre"],
		parseInt(m["year"]), parseInt(m["track_count"]),
		parseInt64(m["play_count"]),
	)
}

func playlistFromHash(id string, m map[string]string) domcat.Playlist {
	return domcat.ReconstructPlaylist(
		id, m["name"],
		m["owner_id"], m["owner_name"],
		m["genre"],
		parseInt(m["track_count"]),
		parseInt64(m["follower_count"]),
		m["public"] == "1",
	)
}

// entityFromHash hydrates the entity variant matching kind. Returns nil
// for an empty hash (expired or deleted key).
func entityFromHash(kind domcat.Kind, id string, m map[string]string) domcat.Entity {
	if len(m) == 0 {
		return nil
	}
	switch kind {
	case domcat.KindSong:
		e := songFromHash(id, m)
		return &e
	case domcat.KindArtist:
		e := artistFromHash(id, m)
		return &e
	case domcat.KindAlbum:
		e := albumFromHash(id, m)
		return &e
	case domcat.KindPlaylist:
		e := playlistFromHash(id, m)
		return &e
	default:
		return nil
	}
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
