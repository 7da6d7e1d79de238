package player

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/gopxl/beep/v2"
)

var _ beep.Streamer = (*mixer)(nil)

type gainEvent struct {
	at   int64 // sample index
	gain float64
}

type slotState struct {
	gain   float64
	events []gainEvent // sorted by at
}

func (s *slotState) advance(t int64) {
	for len(s.events) > 0 && s.events[0].at <= t {
		s.gain = s.events[0].gain
		s.events = s.events[1:]
	}
}

type voice struct {
	m     *mixer
	buf   *Buffer
	slot  int
	start int64
}

func (v *voice) Stop() {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	v.m.voices = slices.DeleteFunc(v.m.voices, func(o *voice) bool { return o == v })
}

func (v *voice) end() int64 { return v.start + int64(len(v.buf.Samples)) }

// mixer is a sample-counting streamer. Its position is the audio clock: it only
// advances while Running, so suspending freezes time and every scheduled start.
type mixer struct {
	mu      sync.Mutex
	rate    int
	pos     int64
	state   State
	voices  []*voice
	slots   [Slots]slotState
	routing Routing
	bands   [Slots]bandSplit
	beat    beatClock
}

func newMixer(rate int) *mixer {
	m := &mixer{rate: rate}
	m.resetSlots()
	m.resetBands()
	return m
}

func (m *mixer) resetSlots() {
	for i := range m.slots {
		m.slots[i] = slotState{gain: DefaultGain(i)}
	}
}

func (m *mixer) resetBands() {
	for i := range m.bands {
		m.bands[i] = newBandSplit(m.rate)
	}
}

func (m *mixer) toSample(at float64) int64 {
	return int64(math.Round(at * float64(m.rate)))
}

// Stream implements beep.Streamer.
func (m *mixer) Stream(samples [][2]float64) (n int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Running {
		clear(samples)
		return len(samples), true
	}

	var slotBuf [Slots][2]float64
	for i := range samples {
		t := m.pos + int64(i)
		slotBuf = [Slots][2]float64{}

		for _, v := range m.voices {
			idx := t - v.start
			if idx < 0 || idx >= int64(len(v.buf.Samples)) {
				continue
			}
			s := v.buf.Samples[idx]
			slotBuf[v.slot][0] += s[0]
			slotBuf[v.slot][1] += s[1]
		}

		for s := range Slots {
			m.slots[s].advance(t)
			g := m.slots[s].gain
			slotBuf[s][0] *= g
			slotBuf[s][1] *= g
		}

		samples[i] = m.route(&slotBuf, t)
	}

	m.pos += int64(len(samples))
	m.voices = slices.DeleteFunc(m.voices, func(v *voice) bool { return v.end() <= m.pos })
	return len(samples), true
}

// Err implements beep.Streamer.
func (m *mixer) Err() error { return nil }

func (m *mixer) route(slots *[Slots][2]float64, t int64) [2]float64 {
	if m.routing == Direct {
		var out [2]float64
		for _, s := range slots {
			out[0] += s[0]
			out[1] += s[1]
		}
		return out
	}
	return m.recombine(slots, t)
}

func (m *mixer) Now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.pos) / float64(m.rate)
}

func (m *mixer) Decode(name string, data []byte) (*Buffer, error) {
	return decode(name, data, m.rate)
}

func (m *mixer) Play(buf *Buffer, slot int, at float64) (Voice, error) {
	if slot < 0 || slot >= Slots {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Closed {
		return nil, ErrClosed
	}
	v := &voice{m: m, buf: buf, slot: slot, start: m.toSample(at)}
	m.voices = append(m.voices, v)
	return v, nil
}

func (m *mixer) SetGain(slot int, at, gain float64) error {
	if slot < 0 || slot >= Slots {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Closed {
		return ErrClosed
	}
	idx := max(m.toSample(at), m.pos)
	s := &m.slots[slot]
	s.events = slices.DeleteFunc(s.events, func(e gainEvent) bool { return e.at >= idx })
	s.events = append(s.events, gainEvent{at: idx, gain: gain})
	return nil
}

func (m *mixer) SetRouting(r Routing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.routing == r {
		return
	}
	m.routing = r
	m.resetBands()
}

func (m *mixer) SetBeatClock(origin float64, tempo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beat = beatClock{origin: origin, tempo: tempo}
}

func (m *mixer) Suspend() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.CanSuspend() {
		m.state = Suspended
	}
}

func (m *mixer) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.CanResume() {
		m.state = Running
	}
}

func (m *mixer) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voices = nil
	m.resetSlots()
	m.resetBands()
}

func (m *mixer) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *mixer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Closed
	m.voices = nil
	return nil
}

func (m *mixer) activeVoices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}
