package player

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// errInvalidSampleRate is returned for MP3 streams without a usable sample rate.
var errInvalidSampleRate = errors.New("mp3: invalid sample rate")

// mp3Stream adapts llehouerou/go-mp3 to beep.StreamSeekCloser. go-mp3 always
// produces 16-bit stereo PCM.
type mp3Stream struct {
	decoder *mp3.Decoder
	closer  io.Closer
	err     error
	pcm     []byte
}

func decodeGoMP3(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	decoder, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate <= 0 {
		return nil, beep.Format{}, errInvalidSampleRate
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	return &mp3Stream{decoder: decoder, closer: rc, pcm: make([]byte, 8192)}, format, nil
}

// Stream implements beep.Streamer.
func (d *mp3Stream) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}

	need := len(samples) * 4
	if len(d.pcm) < need {
		d.pcm = make([]byte, need)
	}

	read, err := io.ReadFull(d.decoder, d.pcm[:need])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		d.err = err
		return 0, false
	}

	frames := read / 4
	if frames == 0 {
		return 0, false
	}
	for i := range frames {
		samples[i] = pcmFrame(d.pcm[i*4:])
	}
	return frames, true
}

// pcmFrame converts one little-endian 16-bit stereo frame.
func pcmFrame(b []byte) [2]float64 {
	left := int16(binary.LittleEndian.Uint16(b))     //nolint:gosec // audio samples
	right := int16(binary.LittleEndian.Uint16(b[2:])) //nolint:gosec // audio samples
	return [2]float64{float64(left) / 32768.0, float64(right) / 32768.0}
}

func (d *mp3Stream) Err() error {
	return d.err
}

func (d *mp3Stream) Len() int {
	count := d.decoder.SampleCount()
	if count < 0 {
		return 0
	}
	return int(count)
}

func (d *mp3Stream) Position() int {
	return int(d.decoder.SamplePosition())
}

func (d *mp3Stream) Seek(p int) error {
	p = min(max(p, 0), d.Len())
	if err := d.decoder.SeekToSample(int64(p)); err != nil {
		return err
	}
	d.err = nil
	return nil
}

func (d *mp3Stream) Close() error {
	return d.closer.Close()
}
