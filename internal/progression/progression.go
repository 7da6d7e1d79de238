// Package progression generates the key/tempo table that drives unit assembly.
package progression

import (
	"math"
	"slices"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/config"
)

// Entry is one step of the progression.
type Entry struct {
	Key   int
	Tempo int
}

// Generate builds the table for lib. Tempos are visited in ascending cyclic order
// starting at startTempo (or the nearest available tempo). Each tempo contributes a run
// of keys walking up from startKey, sized in proportion to how many songs share that
// tempo; the tempo with the fewest songs gets MinPerTempo entries. The block is repeated
// Cycles times.
func Generate(lib *catalog.Library, startKey, startTempo int, cfg config.ProgressionConfig) []Entry {
	startKey = catalog.WrapKey(startKey)
	minPer := max(cfg.MinPerTempo, 1)
	cycles := max(cfg.Cycles, 1)

	var tempos []int
	if lib != nil {
		tempos = lib.Tempos()
	}
	if len(tempos) == 0 {
		block := walk(startKey, startTempo, minPer)
		return repeat(block, cycles)
	}

	first := nearest(tempos, startTempo)
	ordered := append(slices.Clone(tempos[first:]), tempos[:first]...)

	minCount := math.MaxInt
	for _, t := range tempos {
		minCount = min(minCount, lib.CountAtTempo(t))
	}

	var block []Entry
	for _, t := range ordered {
		n := int(math.Round(float64(minPer) * float64(lib.CountAtTempo(t)) / float64(minCount)))
		block = append(block, walk(startKey, t, max(n, minPer))...)
	}
	return repeat(block, cycles)
}

func walk(startKey, tempo, n int) []Entry {
	entries := make([]Entry, n)
	for i := range n {
		entries[i] = Entry{Key: catalog.WrapKey(startKey + i), Tempo: tempo}
	}
	return entries
}

func repeat(block []Entry, cycles int) []Entry {
	out := make([]Entry, 0, len(block)*cycles)
	for range cycles {
		out = append(out, block...)
	}
	return out
}

// nearest returns the index of tempo in the sorted tempos, or of the closest value.
// Ties go to the lower tempo.
func nearest(tempos []int, tempo int) int {
	best := 0
	for i, t := range tempos {
		if abs(t-tempo) < abs(tempos[best]-tempo) {
			best = i
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Progression walks a generated table with a cursor. It is not safe for concurrent
// use; the scheduler owns it.
type Progression struct {
	lib        *catalog.Library
	cfg        config.ProgressionConfig
	startKey   int
	startTempo int
	entries    []Entry
	cursor     int
}

// New generates a progression starting at key and tempo.
func New(lib *catalog.Library, key, tempo int, cfg config.ProgressionConfig) *Progression {
	p := &Progression{lib: lib, cfg: cfg}
	p.Reset(key, tempo)
	return p
}

// Next returns the entry under the cursor and advances it. An exhausted table is
// regenerated from the same start.
func (p *Progression) Next() Entry {
	if p.cursor >= len(p.entries) {
		p.entries = Generate(p.lib, p.startKey, p.startTempo, p.cfg)
		p.cursor = 0
	}
	e := p.entries[p.cursor]
	p.cursor++
	return e
}

// Peek returns the entry Next would return without advancing.
func (p *Progression) Peek() Entry {
	if p.cursor >= len(p.entries) {
		return p.entries[0]
	}
	return p.entries[p.cursor]
}

// Cursor returns the index of the next entry.
func (p *Progression) Cursor() int { return p.cursor }

// Len returns the table length.
func (p *Progression) Len() int { return len(p.entries) }

// Start returns the key and tempo the table was generated from.
func (p *Progression) Start() (key, tempo int) { return p.startKey, p.startTempo }

// Reset regenerates the table from key and tempo and rewinds the cursor.
func (p *Progression) Reset(key, tempo int) {
	p.startKey = catalog.WrapKey(key)
	p.startTempo = tempo
	p.entries = Generate(p.lib, p.startKey, p.startTempo, p.cfg)
	p.cursor = 0
}

// SetLibrary regenerates the table for a new library, keeping the start.
func (p *Progression) SetLibrary(lib *catalog.Library) {
	p.lib = lib
	p.Reset(p.startKey, p.startTempo)
}
