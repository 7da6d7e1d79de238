package playback

import (
	"maps"
	"math"
	"slices"
	"time"

	"github.com/llehouerou/duet/internal/clock"
	"github.com/llehouerou/duet/internal/player"
)

// earlyTolerance is how early, in audio seconds, an entry may run. The engine clock
// advances one output buffer at a time and can trail the notification clock.
const earlyTolerance = 0.005

// timeline runs callbacks at audio-clock times on the scheduler loop. Each entry is
// backed by a clock timer armed for the audio time left. While suspended, entries
// keep their audio time and hold no timer.
//
// All methods run on the loop.
type timeline struct {
	engine    player.Engine
	clock     clock.Clock
	post      func(func())
	entries   map[uint64]*timelineEntry
	seq       uint64
	suspended bool
}

type timelineEntry struct {
	at    float64
	fn    func()
	timer clock.Timer
	armed uint64 // bumped on every arm so stale firings are ignored
}

func newTimeline(engine player.Engine, c clock.Clock, post func(func())) *timeline {
	return &timeline{
		engine:  engine,
		clock:   c,
		post:    post,
		entries: make(map[uint64]*timelineEntry),
	}
}

// Now returns the audio clock.
func (t *timeline) Now() float64 { return t.engine.Now() }

// At runs fn once the audio clock reaches at.
func (t *timeline) At(at float64, fn func()) (cancel func()) {
	t.seq++
	id := t.seq
	e := &timelineEntry{at: at, fn: fn}
	t.entries[id] = e
	if !t.suspended {
		t.arm(id, e)
	}
	return func() { t.cancel(id) }
}

func (t *timeline) arm(id uint64, e *timelineEntry) {
	e.armed++
	gen := e.armed
	e.timer = t.clock.AfterFunc(secondsToDuration(e.at-t.engine.Now()), func() {
		t.post(func() { t.fire(id, gen) })
	})
}

func (t *timeline) fire(id, gen uint64) {
	e, ok := t.entries[id]
	if !ok || e.armed != gen || t.suspended {
		return
	}
	if e.at-t.engine.Now() > earlyTolerance {
		t.arm(id, e)
		return
	}
	delete(t.entries, id)
	e.fn()
}

func (t *timeline) cancel(id uint64) {
	e, ok := t.entries[id]
	if !ok {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(t.entries, id)
}

// suspend stops every timer. Entries stay registered.
func (t *timeline) suspend() {
	if t.suspended {
		return
	}
	t.suspended = true
	for _, e := range t.entries {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
	}
}

// resume arms every entry again for the audio time it has left.
func (t *timeline) resume() {
	if !t.suspended {
		return
	}
	t.suspended = false
	for _, id := range slices.Sorted(maps.Keys(t.entries)) {
		t.arm(id, t.entries[id])
	}
}

// clear drops every entry.
func (t *timeline) clear() {
	for _, e := range t.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	clear(t.entries)
	t.suspended = false
}

// Len returns the number of pending entries.
func (t *timeline) Len() int { return len(t.entries) }

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Max(s, 0) * float64(time.Second))
}
