package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/rng"
)

type fakeHistory struct {
	played  map[int]bool
	pairs   map[[2]int]bool
	recency map[int]float64
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{
		played:  map[int]bool{},
		pairs:   map[[2]int]bool{},
		recency: map[int]float64{},
	}
}

func (h *fakeHistory) IsPlayed(id int) bool { return h.played[id] }

func (h *fakeHistory) IsPairPlayed(a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return h.pairs[[2]int{a, b}]
}

func (h *fakeHistory) Recency(id int) float64 { return h.recency[id] }

func noJitter() Weights {
	w := DefaultWeights()
	w.Jitter = 0
	return w
}

func song(id int, artist string, key, tempo int) catalog.Song {
	return catalog.Song{ID: id, Title: "t", Artist: artist, Key: key, Tempo: tempo}
}

func TestSameArtist(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Daft Punk", "daft punk", true},
		{"Daft Punk", "Daft Punk feat. Pharrell", true},
		{"Nas feat. Lauryn Hill", "Lauryn Hill", true},
		{"AC/DC", "ac dc", true},
		{"Art", "Arthur", true},
		{"Ana", "Santana", true},
		{"Prince", "Princess Nokia", true},
		{"Jay", "Jay-Z", true},
		{"Arthur", "Martha", false},
		{"Alice", "Bob", false},
		{"", "", false},
		{"!!!", "Bob", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, SameArtist(tt.a, tt.b))
		})
	}
}

func TestNormalizeArtist(t *testing.T) {
	assert.Equal(t, "the beatles", NormalizeArtist("  The   Beatles! "))
	assert.Equal(t, "sigur rós", NormalizeArtist("Sigur Rós"))
}

func TestScore_HardConstraints(t *testing.T) {
	h := newFakeHistory()
	h.pairs[[2]int{1, 2}] = true
	s := New(noJitter(), nil, PerRound, h, rng.NewSequence(0))
	r := s.NewRound()

	partner := song(1, "Alice", 3, 84)
	tests := []struct {
		name string
		cand catalog.Song
	}{
		{"same song", partner},
		{"played pair", song(2, "Bob", 3, 84)},
		{"same artist", song(3, "alice", 3, 84)},
		{"featured artist", song(4, "Alice feat. Carol", 3, 84)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Score(tt.cand, Criteria{TargetTempo: 84, TargetKey: 3, Partner: &partner})
			assert.Equal(t, Invalid, got)
		})
	}

	ok := r.Score(song(5, "Dave", 3, 84), Criteria{TargetTempo: 84, TargetKey: 3, Partner: &partner})
	assert.NotEqual(t, Invalid, ok)
}

func TestScore_Components(t *testing.T) {
	w := noJitter()
	h := newFakeHistory()
	s := New(w, []Lens{{Name: "only", Rewards: map[int]float64{2: 77}}}, PerRound, h, rng.NewSequence(0))
	r := s.NewRound()
	c := Criteria{TargetTempo: 84, TargetKey: 5}

	exact := r.Score(song(1, "A", 5, 84), c)
	assert.InDelta(t, w.UnplayedBonus+w.TempoExact+w.KeyExact, exact, 1e-9)

	lensHit := r.Score(song(2, "B", 7, 84), c)
	assert.InDelta(t, w.UnplayedBonus+w.TempoExact+77, lensHit, 1e-9)

	lensMiss := r.Score(song(3, "C", 6, 84), c)
	assert.InDelta(t, w.UnplayedBonus+w.TempoExact+w.KeyMiss, lensMiss, 1e-9)

	h.played[4] = true
	played := r.Score(song(4, "D", 5, 84), c)
	assert.InDelta(t, w.TempoExact+w.KeyExact, played, 1e-9)

	h.recency[5] = 0.5
	recent := r.Score(song(5, "E", 5, 84), c)
	assert.InDelta(t, exact-w.RecencyPenalty/2, recent, 1e-9)

	avoided := r.Score(song(6, "F", 5, 84), Criteria{TargetTempo: 84, TargetKey: 5, AvoidArtists: []string{"F", "f"}})
	assert.InDelta(t, exact-2*w.ArtistPenalty, avoided, 1e-9)
}

func TestScore_TempoBands(t *testing.T) {
	w := noJitter()
	tests := []struct {
		tempo int
		want  float64
	}{
		{84, w.TempoExact},
		{88, w.TempoClose},
		{80, w.TempoClose},
		{94, w.TempoModerate},
		{102, w.TempoFar},
		{110, w.TempoVeryFar},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, tempoFit(tt.tempo, 84, w), 1e-9, "tempo %d", tt.tempo)
	}
}

func TestScore_UnplayedDominates(t *testing.T) {
	h := newFakeHistory()
	h.played[1] = true
	s := New(DefaultWeights(), nil, PerRound, h, rng.NewPCG(1))
	r := s.NewRound()
	c := Criteria{TargetTempo: 84, TargetKey: 5}

	perfectButPlayed := r.Score(song(1, "A", 5, 84), c)
	poorButFresh := r.Score(song(2, "B", 10, 130), c)
	assert.Greater(t, poorButFresh, perfectButPlayed)
}

func TestScore_JitterBounded(t *testing.T) {
	w := DefaultWeights()
	s := New(w, nil, PerRound, nil, rng.NewSequence(0.999))
	r := s.NewRound()
	got := r.Score(song(1, "A", 5, 84), Criteria{TargetTempo: 84, TargetKey: 5})
	base := w.TempoExact + w.KeyExact
	assert.GreaterOrEqual(t, got, base)
	assert.Less(t, got, base+w.Jitter)
}

func TestLensPolicy(t *testing.T) {
	lenses := []Lens{
		{Name: "a", Rewards: map[int]float64{1: 10}},
		{Name: "b", Rewards: map[int]float64{1: 20}},
	}
	w := noJitter()
	c := Criteria{TargetTempo: 84, TargetKey: 5}
	cand := song(1, "A", 6, 84)

	// PerRound: the lens is drawn once, jitter draws do not change it.
	s := New(w, lenses, PerRound, nil, rng.NewSequence(0.0, 0.9, 0.9))
	r := s.NewRound()
	assert.Equal(t, "a", r.Lens().Name)
	assert.InDelta(t, r.Score(cand, c), r.Score(cand, c), 1e-9)

	// PerCall: every score draws a lens, then jitter.
	s = New(w, lenses, PerCall, nil, rng.NewSequence(0.0, 0.0, 0.0, 0.9, 0.0))
	r = s.NewRound()
	first := r.Score(cand, c)
	second := r.Score(cand, c)
	assert.InDelta(t, w.TempoExact+10, first, 1e-9)
	assert.InDelta(t, w.TempoExact+20, second, 1e-9)

	assert.Equal(t, PerCall, ParseLensPolicy("per_call"))
	assert.Equal(t, PerRound, ParseLensPolicy("bogus"))
}
