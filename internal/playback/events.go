package playback

import (
	"github.com/llehouerou/duet/internal/errmsg"
	"github.com/llehouerou/duet/internal/mix"
	"github.com/llehouerou/duet/internal/modes"
)

// Snapshot is the scheduler state as seen by the UI. It is replaced, never mutated.
type Snapshot struct {
	State State

	// Key and Tempo follow the audible unit; before the first unit they are the targets.
	Key   int
	Tempo int

	// TargetKey and TargetTempo are what the next units are built for.
	TargetKey   int
	TargetTempo int

	Unit      *mix.Unit // audible unit, nil when idle
	Next      *mix.Unit // first unit scheduled after it
	Start     float64   // audio times of Unit
	MainStart float64
	End       float64

	// Now is the audio clock when the snapshot was read.
	Now float64

	// Cursor is the position of the next progression entry in a table of Steps.
	Cursor int
	Steps  int

	Mode            modes.Mode
	AlternateVolume float64
	CanGoBack       bool
	Loading         bool

	Songs  int // library size
	Played int // songs played in the current wave
	Wave   int
}

// Elapsed returns the seconds played in the audible unit.
func (s Snapshot) Elapsed() float64 {
	if s.Unit == nil {
		return 0
	}
	return min(max(s.Now-s.Start, 0), s.End-s.Start)
}

// Progress returns the played fraction of the audible unit.
func (s Snapshot) Progress() float64 {
	if s.Unit == nil || s.End <= s.Start {
		return 0
	}
	return s.Elapsed() / (s.End - s.Start)
}

// InMain reports whether the audible unit reached its main section.
func (s Snapshot) InMain() bool {
	return s.Unit != nil && s.Now >= s.MainStart
}

// UnitEvent is emitted at the start, intro-to-main transition and end of a unit.
type UnitEvent struct {
	Unit *mix.Unit
	At   float64 // audio time
}

// ErrorEvent is emitted when scheduling side work fails. Playback carries on.
type ErrorEvent struct {
	Op  errmsg.Op
	Err error
}
