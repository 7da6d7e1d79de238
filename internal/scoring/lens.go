package scoring

import "github.com/llehouerou/duet/internal/rng"

// Lens is a harmonic view on key compatibility: it rewards selected circular distances
// between a candidate key and the target key. Unlisted distances get Weights.KeyMiss.
type Lens struct {
	Name    string
	Rewards map[int]float64
}

// Reward returns the lens reward for a circular key distance and whether the lens
// covers that distance.
func (l Lens) Reward(distance int) (float64, bool) {
	r, ok := l.Rewards[distance]
	return r, ok
}

// DefaultLenses returns the built-in lenses in a stable order.
func DefaultLenses() []Lens {
	return []Lens{
		{Name: "fifths", Rewards: map[int]float64{1: 250, 2: 150}},
		{Name: "pentatonic", Rewards: map[int]float64{2: 250, 3: 200}},
		{Name: "modal", Rewards: map[int]float64{1: 200, 3: 150}},
		{Name: "tritone", Rewards: map[int]float64{5: 250, 3: 100}},
		{Name: "extended", Rewards: map[int]float64{2: 200, 4: 200}},
		{Name: "chromatic", Rewards: map[int]float64{1: 150, 2: 120, 3: 90, 4: 60, 5: 30}},
	}
}

// LensPolicy decides how often a lens is drawn.
type LensPolicy string

const (
	// PerRound draws one lens per selection round.
	PerRound LensPolicy = "per_round"
	// PerCall draws a new lens for every scored candidate.
	PerCall LensPolicy = "per_call"
)

// ParseLensPolicy maps a configuration value to a policy, defaulting to PerRound.
func ParseLensPolicy(s string) LensPolicy {
	if LensPolicy(s) == PerCall {
		return PerCall
	}
	return PerRound
}

func pickLens(lenses []Lens, src rng.Source) Lens {
	return lenses[rng.Intn(src, len(lenses))]
}
