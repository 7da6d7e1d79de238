// Package scoring ranks candidate songs against a target key and tempo, an optional
// partner and the selection history.
package scoring

import (
	"math"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/rng"
)

// Invalid marks a candidate that must never be chosen.
var Invalid = math.Inf(-1)

// History is the read side of the selection history the scorer consults.
type History interface {
	IsPlayed(id int) bool
	IsPairPlayed(a, b int) bool
	// Recency returns 1 for the most recently selected song, decreasing towards 0
	// for older entries of the recent list, and 0 for songs not in it.
	Recency(id int) float64
}

// Weights holds the additive score components.
type Weights struct {
	UnplayedBonus float64

	TempoExact    float64
	TempoClose    float64
	TempoModerate float64
	TempoFar      float64
	TempoVeryFar  float64

	TempoCloseRange    int
	TempoModerateRange int
	TempoFarRange      int

	KeyExact float64
	KeyMiss  float64

	ArtistPenalty  float64
	RecencyPenalty float64
	Jitter         float64
}

// DefaultWeights returns weights ordered by magnitude: unplayed, tempo, key, avoidance,
// recency and jitter.
func DefaultWeights() Weights {
	return Weights{
		UnplayedBonus: 10000,

		TempoExact:    1000,
		TempoClose:    600,
		TempoModerate: 200,
		TempoFar:      -200,
		TempoVeryFar:  -600,

		TempoCloseRange:    4,
		TempoModerateRange: 10,
		TempoFarRange:      20,

		KeyExact: 500,
		KeyMiss:  -150,

		ArtistPenalty:  2000,
		RecencyPenalty: 1500,
		Jitter:         50,
	}
}

// Criteria describes what a candidate is scored against.
type Criteria struct {
	TargetTempo  int
	TargetKey    int
	Partner      *catalog.Song
	AvoidArtists []string
}

// Scorer produces scoring rounds. It holds no mutable state of its own.
type Scorer struct {
	weights Weights
	lenses  []Lens
	policy  LensPolicy
	history History
	src     rng.Source
}

// New creates a scorer. A nil lenses slice uses DefaultLenses.
func New(w Weights, lenses []Lens, policy LensPolicy, h History, src rng.Source) *Scorer {
	if len(lenses) == 0 {
		lenses = DefaultLenses()
	}
	return &Scorer{
		weights: w,
		lenses:  lenses,
		policy:  policy,
		history: h,
		src:     src,
	}
}

// Weights returns the scorer weights.
func (s *Scorer) Weights() Weights { return s.weights }

// Round scores candidates for one selection.
type Round struct {
	s    *Scorer
	lens Lens
}

// NewRound starts a selection round, drawing its lens under the PerRound policy.
func (s *Scorer) NewRound() *Round {
	return &Round{s: s, lens: pickLens(s.lenses, s.src)}
}

// Lens returns the lens drawn for the round.
func (r *Round) Lens() Lens { return r.lens }

// Score returns the candidate score, or Invalid when song cannot pair with the partner.
func (r *Round) Score(song catalog.Song, c Criteria) float64 {
	s := r.s
	w := s.weights

	if c.Partner != nil && !CanPair(song, *c.Partner, s.history) {
		return Invalid
	}

	lens := r.lens
	if s.policy == PerCall {
		lens = pickLens(s.lenses, s.src)
	}

	score := tempoFit(song.Tempo, c.TargetTempo, w)
	score += keyFit(song.Key, c.TargetKey, lens, w)
	score -= w.ArtistPenalty * float64(CountArtistMatches(song.Artist, c.AvoidArtists))

	if s.history != nil {
		score -= w.RecencyPenalty * s.history.Recency(song.ID)
		if !s.history.IsPlayed(song.ID) {
			score += w.UnplayedBonus
		}
	}

	score += s.src.Float64() * w.Jitter
	return score
}

// CanPair reports whether two songs may play together: different songs, different
// artists and a pair not played before.
func CanPair(a, b catalog.Song, h History) bool {
	if a.ID == b.ID {
		return false
	}
	if SameArtist(a.Artist, b.Artist) {
		return false
	}
	if h != nil && h.IsPairPlayed(a.ID, b.ID) {
		return false
	}
	return true
}

func tempoFit(tempo, target int, w Weights) float64 {
	d := tempo - target
	if d < 0 {
		d = -d
	}
	switch {
	case d == 0:
		return w.TempoExact
	case d <= w.TempoCloseRange:
		return w.TempoClose
	case d <= w.TempoModerateRange:
		return w.TempoModerate
	case d <= w.TempoFarRange:
		return w.TempoFar
	default:
		return w.TempoVeryFar
	}
}

func keyFit(key, target int, lens Lens, w Weights) float64 {
	d := catalog.KeyDistance(key, target)
	if d == 0 {
		return w.KeyExact
	}
	if r, ok := lens.Reward(d); ok {
		return r
	}
	return w.KeyMiss
}
