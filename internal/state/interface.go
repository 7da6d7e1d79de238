package state

import (
	"database/sql"

	"github.com/llehouerou/duet/internal/catalog"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	Songs() ([]catalog.Song, error)
	ReplaceSongs(songs []catalog.Song) error
	SaveSession(s Session)
	GetSession() (*Session, error)
	ListPlaylists() ([]SavedPlaylist, error)
	GetPlaylist(name string) (*SavedPlaylist, error)
	SavePlaylist(name, token string) error
	DeletePlaylist(name string) error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
