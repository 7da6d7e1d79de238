package modes

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/duet/internal/player"
)

// Recombine switches the engine to the recombined graph, where hidden tracks feed the
// bass bus and the beat clock drives the step patterns.
type Recombine struct {
	engine   player.Engine
	timeline Timeline
	enabled  bool
	attached bool
	window   Window
	logger   zerolog.Logger
}

// NewRecombine creates a disabled controller.
func NewRecombine(engine player.Engine, tl Timeline, logger zerolog.Logger) *Recombine {
	return &Recombine{engine: engine, timeline: tl, logger: logger}
}

// Enabled reports whether the mode is on.
func (r *Recombine) Enabled() bool { return r.enabled }

// Enable routes the engine through the recombined graph.
func (r *Recombine) Enable() {
	if r.enabled {
		return
	}
	r.enabled = true
	r.engine.SetRouting(player.Recombined)
	if r.attached {
		r.open(r.timeline.Now())
	}
}

// Disable restores direct routing and silences the hidden slots.
func (r *Recombine) Disable() {
	if !r.enabled {
		return
	}
	r.enabled = false
	r.engine.SetRouting(player.Direct)
	r.setGains(r.timeline.Now(), 0)
}

// Attach follows a new unit: the beat clock restarts at the unit start.
func (r *Recombine) Attach(w Window) {
	r.window = w
	r.attached = true
	if r.enabled {
		r.open(w.Start)
	}
}

// Detach forgets the unit.
func (r *Recombine) Detach() {
	r.attached = false
}

func (r *Recombine) open(at float64) {
	r.engine.SetBeatClock(r.window.Start, r.window.Tempo)
	r.setGains(at, 1)
}

func (r *Recombine) setGains(t, g float64) {
	for _, slot := range []int{slotA, slotB} {
		if err := r.engine.SetGain(slot, t, g); err != nil {
			r.logger.Warn().Err(err).Int("slot", slot).Msg("recombine: set gain")
		}
	}
}
