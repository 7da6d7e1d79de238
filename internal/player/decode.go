package player

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
)

// resampleQuality is passed to beep.Resample.
const resampleQuality = 4

type audioFormat int

const (
	formatUnknown audioFormat = iota
	formatMP3
	formatFLAC
)

// sniff identifies the container from its header bytes.
func sniff(data []byte) audioFormat {
	switch {
	case bytes.HasPrefix(data, []byte("fLaC")):
		return formatFLAC
	case bytes.HasPrefix(data, []byte("ID3")):
		return formatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return formatMP3
	default:
		return formatUnknown
	}
}

// decode reads a whole MP3 or FLAC file into memory at the given sample rate.
func decode(name string, data []byte, rate int) (*Buffer, error) {
	rc := io.NopCloser(bytes.NewReader(data))

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch sniff(data) {
	case formatFLAC:
		streamer, format, err = flac.Decode(rc)
	case formatMP3:
		streamer, format, err = decodeGoMP3(rc)
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if int(format.SampleRate) != rate {
		src = beep.Resample(resampleQuality, format.SampleRate, beep.SampleRate(rate), streamer)
	}

	samples, err := readAll(src, streamer.Len())
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	return &Buffer{Name: name, Samples: samples, SampleRate: rate}, nil
}

func readAll(s beep.Streamer, sizeHint int) ([][2]float64, error) {
	out := make([][2]float64, 0, max(sizeHint, 0))
	chunk := make([][2]float64, 4096)
	for {
		n, ok := s.Stream(chunk)
		out = append(out, chunk[:n]...)
		if !ok {
			break
		}
	}
	return out, s.Err()
}
