package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/config"
)

func library(t *testing.T, perTempo map[int]int) *catalog.Library {
	t.Helper()
	var songs []catalog.Song
	id := 1
	for tempo, n := range perTempo {
		for range n {
			songs = append(songs, catalog.Song{ID: id, Artist: "A", Key: 1, Tempo: tempo})
			id++
		}
	}
	lib, err := catalog.New(songs, nil)
	require.NoError(t, err)
	return lib
}

func TestGenerate_ProportionalRuns(t *testing.T) {
	lib := library(t, map[int]int{84: 3, 94: 6, 102: 4})
	cfg := config.ProgressionConfig{MinPerTempo: 2, Cycles: 1}

	got := Generate(lib, 9, 94, cfg)

	// 94: round(2*6/3)=4, 102: round(2*4/3)=3, 84: 2
	want := []Entry{
		{9, 94}, {10, 94}, {1, 94}, {2, 94},
		{9, 102}, {10, 102}, {1, 102},
		{9, 84}, {10, 84},
	}
	assert.Equal(t, want, got)
}

func TestGenerate_Cycles(t *testing.T) {
	lib := library(t, map[int]int{84: 1})
	got := Generate(lib, 1, 84, config.ProgressionConfig{MinPerTempo: 3, Cycles: 4})
	require.Len(t, got, 12)
	assert.Equal(t, got[:3], got[9:])
}

func TestGenerate_NearestStartTempo(t *testing.T) {
	lib := library(t, map[int]int{84: 1, 94: 1, 102: 1})
	cfg := config.ProgressionConfig{MinPerTempo: 1, Cycles: 1}

	tests := []struct {
		start int
		first int
	}{
		{94, 94},
		{100, 102},
		{89, 84},
		{10, 84},
		{200, 102},
	}
	for _, tt := range tests {
		got := Generate(lib, 1, tt.start, cfg)
		assert.Equal(t, tt.first, got[0].Tempo, "start %d", tt.start)
	}
}

func TestGenerate_EmptyLibrary(t *testing.T) {
	got := Generate(nil, 12, 90, config.ProgressionConfig{MinPerTempo: 2, Cycles: 2})
	assert.Equal(t, []Entry{{2, 90}, {3, 90}, {2, 90}, {3, 90}}, got)
}

func TestProgression_CursorAndExhaustion(t *testing.T) {
	lib := library(t, map[int]int{84: 1, 94: 1})
	p := New(lib, 3, 84, config.ProgressionConfig{MinPerTempo: 1, Cycles: 1})

	require.Equal(t, 2, p.Len())
	assert.Equal(t, Entry{3, 84}, p.Peek())
	assert.Equal(t, Entry{3, 84}, p.Next())
	assert.Equal(t, 1, p.Cursor())
	assert.Equal(t, Entry{3, 94}, p.Next())
	assert.Equal(t, Entry{3, 84}, p.Peek(), "exhausted table wraps")
	assert.Equal(t, Entry{3, 84}, p.Next())
	assert.Equal(t, 1, p.Cursor())
}

func TestProgression_Reset(t *testing.T) {
	lib := library(t, map[int]int{84: 1, 94: 1})
	p := New(lib, 1, 84, config.ProgressionConfig{MinPerTempo: 2, Cycles: 1})
	p.Next()
	p.Next()

	p.Reset(7, 94)
	assert.Zero(t, p.Cursor())
	assert.Equal(t, Entry{7, 94}, p.Next())
	key, tempo := p.Start()
	assert.Equal(t, 7, key)
	assert.Equal(t, 94, tempo)

	p.SetLibrary(library(t, map[int]int{102: 2}))
	assert.Equal(t, Entry{7, 102}, p.Next())
}
