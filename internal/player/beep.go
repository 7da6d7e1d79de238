package player

import (
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// DefaultSampleRate is the output rate of the beep engine.
const DefaultSampleRate = 44100

var _ Engine = (*BeepEngine)(nil)

// BeepEngine plays through the system audio device via beep's speaker.
type BeepEngine struct {
	*mixer
}

// NewBeepEngine initializes the speaker and starts rendering. bufferSize trades
// latency against underruns.
func NewBeepEngine(sampleRate int, bufferSize time.Duration) (*BeepEngine, error) {
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(bufferSize)); err != nil {
		return nil, err
	}
	e := &BeepEngine{mixer: newMixer(sampleRate)}
	speaker.Play(e.mixer)
	return e, nil
}

// Close stops rendering and releases the audio device.
func (e *BeepEngine) Close() error {
	if err := e.mixer.Close(); err != nil {
		return err
	}
	speaker.Clear()
	speaker.Close()
	return nil
}
