package player

import (
	"slices"
	"sync"
)

var _ Engine = (*Mock)(nil)

// PlayCall records one Play on the mock.
type PlayCall struct {
	Name  string
	Slot  int
	At    float64
	Voice *MockVoice
}

// GainCall records one SetGain on the mock.
type GainCall struct {
	Slot int
	At   float64
	Gain float64
}

// MockVoice is the voice returned by Mock.Play.
type MockVoice struct {
	mu      sync.Mutex
	stopped bool
}

func (v *MockVoice) Stop() {
	v.mu.Lock()
	v.stopped = true
	v.mu.Unlock()
}

// Stopped reports whether Stop was called.
func (v *MockVoice) Stopped() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stopped
}

// Mock is a test double for Engine. Its clock only moves through Advance and SetNow.
type Mock struct {
	mu             sync.Mutex
	now            float64
	state          State
	plays          []PlayCall
	gains          []GainCall
	pending        [Slots][]GainCall
	current        [Slots]float64
	routing        Routing
	routings       []Routing
	beatOrigin     float64
	beatTempo      int
	stopAllCalls   int
	decodes        []string
	decodeErr      error
	decodeDuration float64
	sampleRate     int
}

// NewMock creates a mock engine whose decoded buffers last one second.
func NewMock() *Mock {
	m := &Mock{decodeDuration: 1, sampleRate: 100}
	for i := range m.current {
		m.current[i] = DefaultGain(i)
	}
	return m
}

func (m *Mock) Now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Mock) Decode(name string, _ []byte) (*Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decodes = append(m.decodes, name)
	if m.decodeErr != nil {
		return nil, m.decodeErr
	}
	frames := int(m.decodeDuration * float64(m.sampleRate))
	return &Buffer{Name: name, Samples: make([][2]float64, frames), SampleRate: m.sampleRate}, nil
}

func (m *Mock) Play(buf *Buffer, slot int, at float64) (Voice, error) {
	if slot < 0 || slot >= Slots {
		return nil, ErrInvalidSlot
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Closed {
		return nil, ErrClosed
	}
	v := &MockVoice{}
	m.plays = append(m.plays, PlayCall{Name: buf.Name, Slot: slot, At: at, Voice: v})
	return v, nil
}

func (m *Mock) SetGain(slot int, at, gain float64) error {
	if slot < 0 || slot >= Slots {
		return ErrInvalidSlot
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Closed {
		return ErrClosed
	}
	at = max(at, m.now)
	call := GainCall{Slot: slot, At: at, Gain: gain}
	m.gains = append(m.gains, call)
	m.pending[slot] = slices.DeleteFunc(m.pending[slot], func(g GainCall) bool { return g.At >= at })
	m.pending[slot] = append(m.pending[slot], call)
	m.applyDue()
	return nil
}

func (m *Mock) SetRouting(r Routing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routing = r
	m.routings = append(m.routings, r)
}

func (m *Mock) SetBeatClock(origin float64, tempo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beatOrigin = origin
	m.beatTempo = tempo
}

func (m *Mock) Suspend() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.CanSuspend() {
		m.state = Suspended
	}
}

func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.CanResume() {
		m.state = Running
	}
}

func (m *Mock) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAllCalls++
	for _, p := range m.plays {
		p.Voice.Stop()
	}
	for i := range m.pending {
		m.pending[i] = nil
		m.current[i] = DefaultGain(i)
	}
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Closed
	return nil
}

func (m *Mock) applyDue() {
	for s := range m.pending {
		for len(m.pending[s]) > 0 && m.pending[s][0].At <= m.now {
			m.current[s] = m.pending[s][0].Gain
			m.pending[s] = m.pending[s][1:]
		}
	}
}

// Test helpers

// Advance moves the audio clock forward unless the engine is suspended.
func (m *Mock) Advance(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Running {
		return
	}
	m.now += seconds
	m.applyDue()
}

// SetNow sets the audio clock.
func (m *Mock) SetNow(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = seconds
	m.applyDue()
}

func (m *Mock) SetDecodeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decodeErr = err
}

func (m *Mock) SetDecodeDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decodeDuration = seconds
}

func (m *Mock) Plays() []PlayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.plays)
}

// ActivePlays returns the plays whose voice was not stopped.
func (m *Mock) ActivePlays() []PlayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []PlayCall
	for _, p := range m.plays {
		if !p.Voice.Stopped() {
			out = append(out, p)
		}
	}
	return out
}

func (m *Mock) Gains() []GainCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.gains)
}

// GainNow returns the gain currently applied on slot.
func (m *Mock) GainNow(slot int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current[slot]
}

// PendingGains returns the scheduled gain changes on slot not yet applied.
func (m *Mock) PendingGains(slot int) []GainCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.pending[slot])
}

func (m *Mock) Routing() Routing {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.routing
}

func (m *Mock) Routings() []Routing {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.routings)
}

func (m *Mock) BeatClock() (origin float64, tempo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.beatOrigin, m.beatTempo
}

func (m *Mock) StopAllCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopAllCalls
}

func (m *Mock) Decodes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.decodes)
}
