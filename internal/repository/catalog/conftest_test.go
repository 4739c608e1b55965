package catalog

import (
	"context"
	"path"
	"sort"
)

// mockStore is an in-memory hash store for tests.
type mockStore struct {
	hashes        map[string]map[string]string
	scanErr       error
	hgetMultiErr  error
	scanCalls     int
	hgetAllCalls  int
	multiRequests [][]string
}

func newMockStore() *mockStore {
	return &mockStore{hashes: make(map[string]map[string]string)}
}

func (m *mockStore) addSong(id, title, artistName, genre string, playCount string) {
	m.hashes["song:"+id] = map[string]string{
		"title": title, "artist_name": artistName, "genre": genre, "play_count": playCount,
	}
}

func (m *mockStore) addArtist(id, name, genres, playCount string) {
	m.hashes["artist:"+id] = map[string]string{
		"name": name, "genres": genres, "play_count": playCount,
	}
}

func (m *mockStore) ScanKeys(_ context.Context, pattern string) ([]string, error) {
	m.scanCalls++
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	var keys []string
	for k := range m.hashes {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	m.hgetAllCalls++
	return m.hashes[key], nil
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	m.multiRequests = append(m.multiRequests, keys)
	if m.hgetMultiErr != nil {
		return nil, m.hgetMultiErr
	}
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = m.hashes[k]
	}
	return out, nil
}
