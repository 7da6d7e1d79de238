// Package modes drives the hidden tracks of a unit: alternate-track switching and
// frequency recombination. At most one mode is active.
package modes

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/duet/internal/config"
	"github.com/llehouerou/duet/internal/player"
)

// Hidden track slots.
const (
	slotA = 2
	slotB = 3
)

// Timeline runs callbacks at audio-clock times. Callbacks run on the scheduler loop.
type Timeline interface {
	Now() float64
	At(at float64, fn func()) (cancel func())
}

// Window is the audio-time span of the unit a controller is attached to.
type Window struct {
	Start     float64
	MainStart float64
	End       float64
	Tempo     int
}

// Mode identifies the active controller.
type Mode int

const (
	None Mode = iota
	Alternating
	Recombining
)

func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case Alternating:
		return "alternate"
	case Recombining:
		return "recombine"
	default:
		return "unknown"
	}
}

// Set owns both controllers and keeps them mutually exclusive.
type Set struct {
	alt *Alternate
	rec *Recombine
}

// NewSet creates both controllers. tempo reports the live target tempo.
func NewSet(engine player.Engine, tl Timeline, cfg config.ModesConfig, tempo func() int, logger zerolog.Logger) *Set {
	return &Set{
		alt: NewAlternate(engine, tl, cfg, tempo, logger),
		rec: NewRecombine(engine, tl, logger),
	}
}

// Alternate returns the alternate-track controller.
func (s *Set) Alternate() *Alternate { return s.alt }

// Active returns the enabled mode.
func (s *Set) Active() Mode {
	switch {
	case s.alt.Enabled():
		return Alternating
	case s.rec.Enabled():
		return Recombining
	default:
		return None
	}
}

// ToggleAlternate flips alternate mode, disabling recombination first. It returns
// the new state.
func (s *Set) ToggleAlternate() bool {
	if s.alt.Enabled() {
		s.alt.Disable()
		return false
	}
	s.rec.Disable()
	s.alt.Enable()
	return true
}

// ToggleRecombine flips recombination, disabling alternate mode first. It returns
// the new state.
func (s *Set) ToggleRecombine() bool {
	if s.rec.Enabled() {
		s.rec.Disable()
		return false
	}
	s.alt.Disable()
	s.rec.Enable()
	return true
}

// Attach binds both controllers to the audible unit.
func (s *Set) Attach(w Window) {
	s.alt.Attach(w)
	s.rec.Attach(w)
}

// Detach cancels every controller timer.
func (s *Set) Detach() {
	s.alt.Detach()
	s.rec.Detach()
}
