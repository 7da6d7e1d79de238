//go:build linux

package mpris

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/duet/internal/playback"
)

// Adapter exposes the playback service over MPRIS so media keys and desktop widgets
// can drive it.
type Adapter struct {
	server *server.Server
}

// New creates and starts an adapter for service.
func New(service playback.Service) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("duet", &rootAdapter{}, &playerAdapter{service: service}),
	}
	go func() {
		_ = a.server.Listen()
	}()
	return a, nil
}

// Close releases the bus name.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

type rootAdapter struct{}

func (r *rootAdapter) Raise() error { return nil }
func (r *rootAdapter) Quit() error { return nil }
func (r *rootAdapter) CanQuit() (bool, error) { return false, nil }
func (r *rootAdapter) CanRaise() (bool, error) { return false, nil }
func (r *rootAdapter) HasTrackList() (bool, error) { return false, nil }
func (r *rootAdapter) Identity() (string, error) { return "Duet", nil }
func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac"}, nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return nil, nil
}

// playerAdapter maps the MPRIS player onto units: a "track" is the audible unit.
type playerAdapter struct {
	service playback.Service
}

func (p *playerAdapter) Next() error { return p.service.Next() }
func (p *playerAdapter) Previous() error { return p.service.Previous() }
func (p *playerAdapter) Pause() error { return p.service.Pause() }
func (p *playerAdapter) Stop() error { return p.service.Stop() }
func (p *playerAdapter) Play() error { return p.service.Play() }

func (p *playerAdapter) PlayPause() error {
	if p.service.Snapshot().State == playback.StatePlaying {
		return p.service.Pause()
	}
	return p.service.Play()
}

// Units stay on their beat grid, so seeking is refused.
func (p *playerAdapter) Seek(_ types.Microseconds) error { return nil }
func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error { return nil }

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error { return nil }

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return status(p.service.Snapshot().State), nil
}

func (p *playerAdapter) Rate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) SetRate(_ float64) error { return nil }
func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadata(p.service.Snapshot()), nil
}

// Volume is the gain of the audible hidden track in alternate mode.
func (p *playerAdapter) Volume() (float64, error) {
	return p.service.Snapshot().AlternateVolume, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	return p.service.SetAlternateVolume(v)
}

func (p *playerAdapter) Position() (int64, error) {
	return secondsToMicros(p.service.Snapshot().Elapsed()), nil
}

func (p *playerAdapter) CanGoNext() (bool, error) { return true, nil }

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.service.Snapshot().CanGoBack, nil
}

func (p *playerAdapter) CanPlay() (bool, error) { return p.service.Snapshot().Songs > 0, nil }
func (p *playerAdapter) CanPause() (bool, error) { return true, nil }
func (p *playerAdapter) CanSeek() (bool, error) { return false, nil }
func (p *playerAdapter) CanControl() (bool, error) { return true, nil }

func status(s playback.State) types.PlaybackStatus {
	switch s {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying
	case playback.StatePaused:
		return types.PlaybackStatusPaused
	}
	return types.PlaybackStatusStopped
}

func metadata(snap playback.Snapshot) types.Metadata {
	u := snap.Unit
	if u == nil {
		return types.Metadata{}
	}
	a, b := u.Tracks[0].Song, u.Tracks[1].Song
	return types.Metadata{
		TrackId: dbus.ObjectPath(fmt.Sprintf("/org/mpris/MediaPlayer2/Unit/%d", u.Seq)),
		Length:  types.Microseconds(secondsToMicros(u.Duration())),
		Title:   a.Title + " + " + b.Title,
		Artist:  []string{a.Artist, b.Artist},
		Album:   fmt.Sprintf("Key %d · %d bpm", u.Key, u.Tempo),
	}
}

func secondsToMicros(s float64) int64 {
	return time.Duration(s * float64(time.Second)).Microseconds()
}
