// Package player is the audio engine boundary: decoding, sample-accurate scheduling of
// voices on four mixer slots, gain automation and output routing.
package player

import "errors"

// Slots is the number of mixer channels. Slot i plays track i of a unit.
const Slots = 4

var (
	// ErrUnknownFormat is returned for data that is neither MP3 nor FLAC.
	ErrUnknownFormat = errors.New("unknown audio format")
	// ErrInvalidSlot is returned when a slot index is out of range.
	ErrInvalidSlot = errors.New("invalid slot")
	// ErrClosed is returned by a closed engine.
	ErrClosed = errors.New("engine closed")
)

// Routing selects how slots reach the output.
type Routing int

const (
	// Direct sums the slots.
	Direct Routing = iota
	// Recombined splits slots into bands and rebuilds the output from three buses.
	Recombined
)

func (r Routing) String() string {
	switch r {
	case Direct:
		return "direct"
	case Recombined:
		return "recombined"
	default:
		return "unknown"
	}
}

// Buffer is decoded stereo audio at the engine sample rate.
type Buffer struct {
	Name       string
	Samples    [][2]float64
	SampleRate int
}

// Len returns the number of frames.
func (b *Buffer) Len() int { return len(b.Samples) }

// Duration returns the length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// Voice is one scheduled buffer.
type Voice interface {
	// Stop halts the voice and disconnects it from its slot.
	Stop()
}

// Engine renders scheduled audio. Times are seconds on the engine's audio clock, which
// only advances while audio is being produced.
type Engine interface {
	Now() float64
	Decode(name string, data []byte) (*Buffer, error)
	// Play starts buf on slot at the given audio time. A start time already in the past
	// plays from the matching offset so the voice stays on its grid.
	Play(buf *Buffer, slot int, at float64) (Voice, error)
	// SetGain schedules a gain change on slot at the given time, cancelling any change
	// scheduled on that slot at or after it.
	SetGain(slot int, at, gain float64) error
	SetRouting(r Routing)
	SetBeatClock(origin float64, tempo int)
	Suspend()
	Resume()
	// StopAll halts every voice, drops scheduled gain changes and restores the default
	// slot gains.
	StopAll()
	State() State
	Close() error
}

// DefaultGain returns the gain a slot has after StopAll: primary slots open, hidden
// slots silent.
func DefaultGain(slot int) float64 {
	if slot < 2 {
		return 1
	}
	return 0
}
