package state

import (
	"database/sql"
	"slices"

	"github.com/llehouerou/duet/internal/catalog"
)

// Mock is a test double for Manager.
type Mock struct {
	songs     []catalog.Song
	session   *Session
	playlists []SavedPlaylist
	closed    bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) Songs() ([]catalog.Song, error) {
	return slices.Clone(m.songs), nil
}

func (m *Mock) ReplaceSongs(songs []catalog.Song) error {
	m.songs = slices.Clone(songs)
	return nil
}

func (m *Mock) SaveSession(s Session) { m.session = &s }

func (m *Mock) GetSession() (*Session, error) {
	return m.session, nil
}

func (m *Mock) ListPlaylists() ([]SavedPlaylist, error) {
	return slices.Clone(m.playlists), nil
}

func (m *Mock) GetPlaylist(name string) (*SavedPlaylist, error) {
	for _, p := range m.playlists {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, ErrPlaylistNotFound
}

func (m *Mock) SavePlaylist(name, token string) error {
	if name == "" {
		return ErrEmptyName
	}
	for i := range m.playlists {
		if m.playlists[i].Name == name {
			m.playlists[i].Token = token
			return nil
		}
	}
	m.playlists = append(m.playlists, SavedPlaylist{Name: name, Token: token})
	return nil
}

func (m *Mock) DeletePlaylist(name string) error {
	for i, p := range m.playlists {
		if p.Name == name {
			m.playlists = slices.Delete(m.playlists, i, i+1)
			return nil
		}
	}
	return ErrPlaylistNotFound
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) IsClosed() bool { return m.closed }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
