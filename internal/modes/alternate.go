package modes

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/duet/internal/config"
	"github.com/llehouerou/duet/internal/player"
)

// Alternate keeps exactly one hidden track audible, switching every few beats from
// the start of the main section. Each switch is placed on the engine one switch ahead;
// the interval to the following switch is computed from the live tempo when a switch
// happens, so tempo changes apply from the next switch on.
type Alternate struct {
	engine   player.Engine
	timeline Timeline
	beats    int
	tempo    func() int
	logger   zerolog.Logger

	volume   float64
	enabled  bool
	attached bool
	window   Window

	// next is the time of the last switch placed on the engine and nextActive the
	// hidden track it makes audible (-1 before the first). ended means next is the
	// unit end, where both tracks go silent.
	next       float64
	nextActive int
	ended      bool
	cancel     func()
}

// NewAlternate creates a disabled controller.
func NewAlternate(engine player.Engine, tl Timeline, cfg config.ModesConfig, tempo func() int, logger zerolog.Logger) *Alternate {
	volume := 0.8
	if cfg.AlternateVolume != nil {
		volume = *cfg.AlternateVolume
	}
	return &Alternate{
		engine:     engine,
		timeline:   tl,
		beats:      max(cfg.AlternateBeats, 1),
		tempo:      tempo,
		logger:     logger,
		volume:     volume,
		nextActive: -1,
	}
}

// Enabled reports whether the mode is on.
func (a *Alternate) Enabled() bool { return a.enabled }

// Volume returns the gain of the audible hidden track.
func (a *Alternate) Volume() float64 { return a.volume }

// Interval returns the seconds between switches at the live tempo.
func (a *Alternate) Interval() float64 {
	t := a.tempo()
	if t <= 0 {
		return 0
	}
	return float64(a.beats) * 60 / float64(t)
}

// Enable turns the mode on. When attached it starts switching from the current
// position in the unit.
func (a *Alternate) Enable() {
	if a.enabled {
		return
	}
	a.enabled = true
	if a.attached {
		a.start()
	}
}

// Disable turns the mode off and silences both hidden tracks.
func (a *Alternate) Disable() {
	if !a.enabled {
		return
	}
	a.enabled = false
	a.stopTimer()
	now := a.timeline.Now()
	a.setGains(now, 0, 0)
}

// SetVolume changes the gain of the audible hidden track, immediately when playing.
func (a *Alternate) SetVolume(v float64) {
	a.volume = min(max(v, 0), 1)
	if !a.enabled || !a.attached {
		return
	}
	now := a.timeline.Now()
	if now >= a.window.MainStart {
		if cur := a.audible(now); cur >= 0 {
			a.apply(now, cur)
		}
	}
	// SetGain at now dropped the pending switch, place it again at the new volume.
	switch {
	case a.next < now:
	case a.ended:
		a.setGains(a.next, 0, 0)
	case a.nextActive >= 0:
		a.apply(a.next, a.nextActive)
	}
}

// Attach binds the controller to a unit, replacing any previous binding.
func (a *Alternate) Attach(w Window) {
	a.stopTimer()
	a.window = w
	a.attached = true
	a.next, a.nextActive, a.ended = 0, -1, false
	if a.enabled {
		a.start()
	}
}

// Detach cancels pending switches.
func (a *Alternate) Detach() {
	a.stopTimer()
	a.attached = false
}

func (a *Alternate) start() {
	now := a.timeline.Now()
	w := a.window
	a.next, a.nextActive, a.ended = 0, -1, false
	if now <= w.MainStart {
		a.at(w.MainStart, 0)
		return
	}
	// Already inside the main section: align on the switch grid of the live tempo.
	interval := a.Interval()
	if interval <= 0 {
		return
	}
	k := int((now - w.MainStart) / interval)
	cur := k % 2
	a.apply(now, cur)
	a.nextActive = cur
	a.at(w.MainStart+float64(k+1)*interval, 1-cur)
}

// at places the switch to active at time t on the engine and arms the timer that
// plans the following switch. Switches past the unit end silence both tracks instead.
func (a *Alternate) at(t float64, active int) {
	if t >= a.window.End {
		a.next, a.ended = a.window.End, true
		a.setGains(a.window.End, 0, 0)
		return
	}
	a.next, a.nextActive, a.ended = t, active, false
	a.apply(t, active)
	a.cancel = a.timeline.At(t, func() { a.switched(t) })
}

// switched runs when the switch at t is due.
func (a *Alternate) switched(t float64) {
	a.cancel = nil
	if !a.enabled || !a.attached {
		return
	}
	interval := a.Interval()
	if interval <= 0 {
		return
	}
	a.at(t+interval, 1-a.nextActive)
}

// audible returns the hidden track index audible at now, -1 for none.
func (a *Alternate) audible(now float64) int {
	switch {
	case a.nextActive < 0:
		return -1
	case a.ended:
		if now >= a.next {
			return -1
		}
		return a.nextActive
	case now >= a.next:
		return a.nextActive
	default:
		return 1 - a.nextActive
	}
}

// Audible returns the hidden slot currently audible, or -1.
func (a *Alternate) Audible() int {
	if !a.enabled || !a.attached {
		return -1
	}
	now := a.timeline.Now()
	if now < a.window.MainStart {
		return -1
	}
	idx := a.audible(now)
	if idx < 0 {
		return -1
	}
	return slotA + idx
}

func (a *Alternate) apply(t float64, active int) {
	if active == 0 {
		a.setGains(t, a.volume, 0)
	} else {
		a.setGains(t, 0, a.volume)
	}
}

func (a *Alternate) setGains(t, ga, gb float64) {
	if err := a.engine.SetGain(slotA, t, ga); err != nil {
		a.logger.Warn().Err(err).Msg("alternate: set gain")
	}
	if err := a.engine.SetGain(slotB, t, gb); err != nil {
		a.logger.Warn().Err(err).Msg("alternate: set gain")
	}
}

func (a *Alternate) stopTimer() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}
