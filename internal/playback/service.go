package playback

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/llehouerou/duet/internal/assets"
	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/clock"
	"github.com/llehouerou/duet/internal/config"
	"github.com/llehouerou/duet/internal/mix"
	"github.com/llehouerou/duet/internal/player"
	"github.com/llehouerou/duet/internal/playlist"
	"github.com/llehouerou/duet/internal/selector"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("playback service closed")

// Service defines the playback scheduler contract. Every method is safe for
// concurrent use; calls are serialized on the scheduler loop.
type Service interface {
	// Transport
	Play() error
	Pause() error
	Stop() error
	Next() error
	Previous() error

	// Targets for the units still to be built
	SetKey(key int) error
	SetTempo(tempo int) error

	// Hidden-track modes, at most one enabled
	ToggleAlternate() (bool, error)
	ToggleRecombine() (bool, error)
	SetAlternateVolume(v float64) error

	// Playlist: played units, the audible one and the next, as token entries
	Playlist() []playlist.Entry
	SetPlaylist(entries []playlist.Entry) error
	ExportPlaylist() string
	ImportPlaylist(token string) (int, error)

	// UpdateSongs replaces the library and resets the selection history.
	UpdateSongs(lib *catalog.Library) error

	// Snapshot returns the latest state. It never waits on the loop.
	Snapshot() Snapshot

	// Event subscription
	Subscribe() *Subscription
	Unsubscribe(sub *Subscription)

	// Lifecycle
	Close() error
}

// Options wires the scheduler to its collaborators.
type Options struct {
	Engine    player.Engine
	Loader    *assets.Loader
	Selector  *selector.Selector
	Assembler *mix.Assembler
	Clock     clock.Clock // clock.Real() when nil

	Playback    config.PlaybackConfig
	Progression config.ProgressionConfig
	Modes       config.ModesConfig

	Logger zerolog.Logger
}
