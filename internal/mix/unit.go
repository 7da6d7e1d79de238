// Package mix defines the units the scheduler plays and assembles them from selected
// songs.
package mix

import (
	"slices"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/config"
)

// Timing is the beat grid shared by every unit.
type Timing struct {
	IntroBeats int
	MainBeats  int
}

// TimingFromConfig returns the grid configured for units.
func TimingFromConfig(cfg config.MixConfig) Timing {
	return Timing{IntroBeats: cfg.IntroBeats, MainBeats: cfg.MainBeats}
}

// Intro returns the intro length in seconds at tempo.
func (t Timing) Intro(tempo int) float64 { return beatsToSeconds(t.IntroBeats, tempo) }

// Main returns the main section length in seconds at tempo.
func (t Timing) Main(tempo int) float64 { return beatsToSeconds(t.MainBeats, tempo) }

func beatsToSeconds(beats, tempo int) float64 {
	if tempo <= 0 {
		return 0
	}
	return float64(beats) * 60 / float64(tempo)
}

// Track is a song bound to resolved assets.
type Track struct {
	Song          catalog.Song
	Key           int
	Tempo         int
	IntroURL      string
	MainURL       string
	IntroDuration float64 // at the song's own tempo
	MainDuration  float64
}

// Unit is the set of tracks played together: two primary tracks, optionally two hidden
// ones used by the mode controllers.
type Unit struct {
	Seq           int
	Key           int
	Tempo         int
	Tracks        [2]Track
	Hidden        []Track
	IntroDuration float64 // at the unit tempo
	MainDuration  float64
}

// Duration returns the unit length in seconds.
func (u *Unit) Duration() float64 { return u.IntroDuration + u.MainDuration }

// All returns primary then hidden tracks. Slot i of the engine plays All()[i].
func (u *Unit) All() []Track {
	return append([]Track{u.Tracks[0], u.Tracks[1]}, u.Hidden...)
}

// IDs returns the song ids in slot order.
func (u *Unit) IDs() []int {
	all := u.All()
	ids := make([]int, len(all))
	for i, t := range all {
		ids[i] = t.Song.ID
	}
	return ids
}

// URLs returns every asset URL of the unit, intro before main per track.
func (u *Unit) URLs() []string {
	var urls []string
	for _, t := range u.All() {
		urls = append(urls, t.IntroURL, t.MainURL)
	}
	return urls
}

// Clone returns a copy that shares nothing mutable with u.
func (u *Unit) Clone() *Unit {
	c := *u
	c.Hidden = slices.Clone(u.Hidden)
	return &c
}
