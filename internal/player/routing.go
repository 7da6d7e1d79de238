package player

import "math"

const (
	lowCutoff  = 200.0  // Hz, top of the low band
	highCutoff = 3000.0 // Hz, bottom of the high band

	hiddenBassWeight = 0.5
	compressDrive    = 1.5
)

// bandSplit splits a signal into low, mid and high bands with two one-pole low-pass
// filters. mid = x - low - high, so the bands always sum back to the input.
type bandSplit struct {
	lowCoef  float64
	highCoef float64
	lowZ     [2]float64
	highZ    [2]float64
}

func onePoleCoef(cutoff float64, rate int) float64 {
	return 1 - math.Exp(-2*math.Pi*cutoff/float64(rate))
}

func newBandSplit(rate int) bandSplit {
	return bandSplit{
		lowCoef:  onePoleCoef(lowCutoff, rate),
		highCoef: onePoleCoef(highCutoff, rate),
	}
}

func (b *bandSplit) split(x [2]float64) (low, mid, high [2]float64) {
	for c := range 2 {
		b.lowZ[c] += b.lowCoef * (x[c] - b.lowZ[c])
		b.highZ[c] += b.highCoef * (x[c] - b.highZ[c])
		low[c] = b.lowZ[c]
		high[c] = x[c] - b.highZ[c]
		mid[c] = x[c] - low[c] - high[c]
	}
	return low, mid, high
}

// Bus step patterns, one value per sixteenth note of a bar.
var (
	bassPattern = [16]float64{1, 0.5, 0.8, 0.5, 1, 0.5, 0.8, 0.5, 1, 0.5, 0.8, 0.5, 1, 0.5, 0.8, 0.6}
	midPattern  = [16]float64{0.9, 0.9, 0.7, 1, 0.9, 0.9, 0.7, 1, 0.9, 0.9, 0.7, 1, 0.9, 0.9, 0.7, 1}
	highPattern = [16]float64{0.6, 1, 0.6, 1, 0.6, 1, 0.6, 1, 0.6, 1, 0.6, 1, 0.6, 1, 0.8, 1}
)

var busGains = [3]float64{1.0, 0.9, 0.8}

// beatClock maps audio time to a sixteenth-note step.
type beatClock struct {
	origin float64
	tempo  int
}

func (b beatClock) step(seconds float64) int {
	if b.tempo <= 0 {
		return 0
	}
	beats := (seconds - b.origin) * float64(b.tempo) / 60
	if beats < 0 {
		return 0
	}
	return int(math.Floor(beats*4)) % 16
}

func compress(x float64) float64 {
	return math.Tanh(x*compressDrive) / compressDrive
}

// recombine builds the output from three buses: bass from the low band of slots 0 and
// 3, mid from slot 1 and high from slot 2.
func (m *mixer) recombine(slots *[Slots][2]float64, t int64) [2]float64 {
	var low, mid, high [Slots][2]float64
	for s := range Slots {
		low[s], mid[s], high[s] = m.bands[s].split(slots[s])
	}

	step := m.beat.step(float64(t) / float64(m.rate))
	var out [2]float64
	for c := range 2 {
		bass := low[0][c] + hiddenBassWeight*low[3][c]
		out[c] = compress(bass)*busGains[0]*bassPattern[step] +
			compress(mid[1][c])*busGains[1]*midPattern[step] +
			compress(high[2][c])*busGains[2]*highPattern[step]
	}
	return out
}
