package rng

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntn_Bounds(t *testing.T) {
	tests := []struct {
		u    float64
		n    int
		want int
	}{
		{0, 5, 0},
		{0.19, 5, 0},
		{0.2, 5, 1},
		{0.999999, 5, 4},
		{0.5, 1, 0},
		{0.5, 0, 0},
	}
	for _, tt := range tests {
		got := Intn(NewSequence(tt.u), tt.n)
		assert.Equal(t, tt.want, got, "Intn(%v, %d)", tt.u, tt.n)
	}
}

func TestSequence_Cycles(t *testing.T) {
	s := NewSequence(0.1, 0.2)
	assert.InDelta(t, 0.1, s.Float64(), 1e-12)
	assert.InDelta(t, 0.2, s.Float64(), 1e-12)
	assert.InDelta(t, 0.1, s.Float64(), 1e-12)
}

func TestSequence_EmptyYieldsZero(t *testing.T) {
	assert.Zero(t, NewSequence().Float64())
}

func TestPCG_DeterministicPerSeed(t *testing.T) {
	a, b := NewPCG(42), NewPCG(42)
	for range 10 {
		v := a.Float64()
		assert.Equal(t, v, b.Float64())
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestShuffle_IsPermutation(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	Shuffle(NewPCG(7), len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6}, items)
}

func TestRemote_UsesServiceValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "256", r.URL.Query().Get("n"))
		_, _ = w.Write([]byte(`{"data":[0.25, 1.5, 0.75]}`))
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, NewSequence(0.9), zerolog.Nop())
	require.NoError(t, r.Prefetch(context.Background()))
	assert.Equal(t, 2, r.Buffered(), "out-of-range values are dropped")

	assert.InDelta(t, 0.25, r.Float64(), 1e-12)
	assert.InDelta(t, 0.75, r.Float64(), 1e-12)
}

func TestRemote_FallsBackOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, NewSequence(0.3), zerolog.Nop())
	assert.Error(t, r.Prefetch(context.Background()))
	assert.InDelta(t, 0.3, r.Float64(), 1e-12)
}
