package mix

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/config"
	"github.com/llehouerou/duet/internal/progression"
	"github.com/llehouerou/duet/internal/rng"
	"github.com/llehouerou/duet/internal/scoring"
	"github.com/llehouerou/duet/internal/selector"
)

func boolPtr(b bool) *bool { return &b }

func testLibrary(t *testing.T, n int) *catalog.Library {
	t.Helper()
	songs := make([]catalog.Song, n)
	for i := range n {
		songs[i] = catalog.Song{
			ID:     i + 1,
			Title:  fmt.Sprintf("Song %d", i+1),
			Artist: fmt.Sprintf("Artist %c", 'A'+rune(i)),
			Key:    i%10 + 1,
			Tempo:  84,
			Path:   fmt.Sprintf("songs/%d", i+1),
		}
	}
	lib, err := catalog.New(songs, nil)
	require.NoError(t, err)
	return lib
}

func newAssembler(t *testing.T, lib *catalog.Library, hidden bool) (*Assembler, *selector.Selector) {
	t.Helper()
	sel := selector.New(lib, config.SelectorConfig{ShortlistSize: 5, ResetThreshold: 2, RecentSize: 8}, rng.NewPCG(1), zerolog.Nop())
	res := NewResolver(config.AssetsConfig{BaseURL: "https://cdn.example.com/mix", Format: "auto", IntroName: "intro", MainName: "main"})
	return NewAssembler(sel, res, config.MixConfig{IntroBeats: 16, MainBeats: 64, Hidden: boolPtr(hidden)}), sel
}

func TestTiming_Grid(t *testing.T) {
	tm := Timing{IntroBeats: 16, MainBeats: 64}
	for _, tempo := range []int{84, 94, 102} {
		assert.InDelta(t, 16*60/float64(tempo), tm.Intro(tempo), 1e-12)
		assert.InDelta(t, 64*60/float64(tempo), tm.Main(tempo), 1e-12)
	}
	assert.Zero(t, tm.Intro(0))
}

func TestResolver(t *testing.T) {
	song := catalog.Song{ID: 1, Path: "abc/song-1"}

	tests := []struct {
		name      string
		cfg       config.AssetsConfig
		wantIntro string
		wantMain  string
	}{
		{
			name:      "remote auto uses mp3",
			cfg:       config.AssetsConfig{BaseURL: "https://cdn.example.com/mix/", Format: "auto", IntroName: "intro", MainName: "main"},
			wantIntro: "https://cdn.example.com/mix/abc/song-1/intro.mp3",
			wantMain:  "https://cdn.example.com/mix/abc/song-1/main.mp3",
		},
		{
			name:      "local auto uses flac",
			cfg:       config.AssetsConfig{BaseURL: "/srv/mix", Format: "auto", IntroName: "lead", MainName: "body"},
			wantIntro: filepath.Join("/srv/mix", "abc/song-1", "lead.flac"),
			wantMain:  filepath.Join("/srv/mix", "abc/song-1", "body.flac"),
		},
		{
			name:      "explicit format wins",
			cfg:       config.AssetsConfig{BaseURL: "http://host", Format: "flac", IntroName: "intro", MainName: "main"},
			wantIntro: "http://host/abc/song-1/intro.flac",
			wantMain:  "http://host/abc/song-1/main.flac",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intro, main := NewResolver(tt.cfg).Resolve(song)
			assert.Equal(t, tt.wantIntro, intro)
			assert.Equal(t, tt.wantMain, main)
		})
	}
}

func TestAssemble_Pair(t *testing.T) {
	a, sel := newAssembler(t, testLibrary(t, 12), false)

	u, err := a.Assemble(progression.Entry{Key: 3, Tempo: 84})
	require.NoError(t, err)

	assert.Equal(t, 1, u.Seq)
	assert.Equal(t, 3, u.Key)
	assert.Equal(t, 84, u.Tempo)
	assert.Empty(t, u.Hidden)
	assert.NotEqual(t, u.Tracks[0].Song.ID, u.Tracks[1].Song.ID)
	assert.True(t, sel.IsPairPlayed(u.Tracks[0].Song.ID, u.Tracks[1].Song.ID))
	assert.InDelta(t, 16*60/84.0, u.IntroDuration, 1e-12)
	assert.InDelta(t, 64*60/84.0, u.MainDuration, 1e-12)
	assert.Len(t, u.URLs(), 4)
	assert.Contains(t, u.Tracks[0].IntroURL, u.Tracks[0].Song.Path)
}

func TestAssemble_QuadIsDistinct(t *testing.T) {
	a, _ := newAssembler(t, testLibrary(t, 12), true)

	for i := range 10 {
		u, err := a.Assemble(progression.Entry{Key: 1, Tempo: 84})
		require.NoError(t, err)
		require.Len(t, u.Hidden, 2)
		assert.Equal(t, i+1, u.Seq)

		ids := u.IDs()
		assert.Len(t, ids, 4)
		assert.ElementsMatch(t, ids, uniq(ids), "unit %d reuses a song", i)
		assert.False(t, scoring.SameArtist(u.Hidden[0].Song.Artist, u.Hidden[1].Song.Artist))
	}
}

func uniq(ids []int) []int {
	seen := map[int]bool{}
	var out []int
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func TestAssemble_EmptyLibrary(t *testing.T) {
	lib, err := catalog.New(nil, nil)
	require.NoError(t, err)
	a, _ := newAssembler(t, lib, true)

	_, err = a.Assemble(progression.Entry{Key: 1, Tempo: 84})
	require.ErrorIs(t, err, selector.ErrEmptyLibrary)
}

func TestFromSongs(t *testing.T) {
	lib := testLibrary(t, 4)
	a, _ := newAssembler(t, lib, true)
	songs := lib.Songs()

	u, err := a.FromSongs(5, 94, songs[:3])
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, u.IDs())
	assert.Equal(t, 94, u.Tempo)
	assert.InDelta(t, 16*60/94.0, u.IntroDuration, 1e-12)
	assert.InDelta(t, 16*60/84.0, u.Tracks[0].IntroDuration, 1e-12, "tracks keep their own tempo")

	_, err = a.FromSongs(5, 94, songs[:1])
	require.ErrorIs(t, err, ErrSongCount)
}

func TestUnit_CloneIsIndependent(t *testing.T) {
	u := &Unit{Seq: 1, Hidden: []Track{{Key: 1}}}
	c := u.Clone()
	c.Hidden[0].Key = 9
	assert.Equal(t, 1, u.Hidden[0].Key)
}

func TestHistory(t *testing.T) {
	h := NewHistory(3)
	_, ok := h.Back()
	assert.False(t, ok)

	for seq := 1; seq <= 4; seq++ {
		h.Push(&Unit{Seq: seq})
	}
	h.Push(&Unit{Seq: 4})
	assert.Equal(t, 3, h.Len(), "bounded and idempotent")

	prev, ok := h.Back()
	require.True(t, ok)
	assert.Equal(t, 3, prev.Seq)
	cur, _ := h.Current()
	assert.Equal(t, 3, cur.Seq)

	prev, ok = h.Back()
	require.True(t, ok)
	assert.Equal(t, 2, prev.Seq)
	assert.False(t, h.CanGoBack())

	h.Clear()
	assert.Zero(t, h.Len())
	_, ok = h.Current()
	assert.False(t, ok)
}
