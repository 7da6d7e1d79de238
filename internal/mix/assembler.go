package mix

import (
	"errors"
	"fmt"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/config"
	"github.com/llehouerou/duet/internal/progression"
	"github.com/llehouerou/duet/internal/selector"
)

// ErrSongCount is returned when explicit songs cannot form a unit.
var ErrSongCount = errors.New("a unit needs 2 to 4 songs")

// recentArtistWindow is how many recent artists the first track of a unit avoids.
const recentArtistWindow = 4

// Selector is the part of the song selector the assembler needs.
type Selector interface {
	SelectNext(req selector.Request) (catalog.Song, error)
	RecentArtists(n int) []string
}

// Assembler turns progression entries into units.
type Assembler struct {
	sel      Selector
	resolver *Resolver
	timing   Timing
	hidden   bool
	seq      int
}

// NewAssembler creates an assembler.
func NewAssembler(sel Selector, resolver *Resolver, cfg config.MixConfig) *Assembler {
	return &Assembler{
		sel:      sel,
		resolver: resolver,
		timing:   TimingFromConfig(cfg),
		hidden:   cfg.HiddenEnabled(),
	}
}

// Timing returns the beat grid.
func (a *Assembler) Timing() Timing { return a.timing }


// Assemble selects the songs for entry and builds a unit.
func (a *Assembler) Assemble(e progression.Entry) (*Unit, error) {
	t1, err := a.sel.SelectNext(selector.Request{
		Tempo:        e.Tempo,
		Key:          e.Key,
		AvoidArtists: a.sel.RecentArtists(recentArtistWindow),
	})
	if err != nil {
		return nil, fmt.Errorf("track 1: %w", err)
	}

	t2, err := a.sel.SelectNext(selector.Request{
		Tempo:    e.Tempo,
		Key:      e.Key,
		Partner:  &t1,
		AvoidIDs: []int{t1.ID},
	})
	if err != nil {
		return nil, fmt.Errorf("track 2: %w", err)
	}

	songs := []catalog.Song{t1, t2}
	if a.hidden {
		avoidArtists := []string{t1.Artist, t2.Artist}

		t3, err := a.sel.SelectNext(selector.Request{
			Tempo:        e.Tempo,
			Key:          e.Key,
			AvoidArtists: avoidArtists,
			AvoidIDs:     []int{t1.ID, t2.ID},
		})
		if err != nil {
			return nil, fmt.Errorf("track 3: %w", err)
		}

		t4, err := a.sel.SelectNext(selector.Request{
			Tempo:        e.Tempo,
			Key:          e.Key,
			Partner:      &t3,
			AvoidArtists: avoidArtists,
			AvoidIDs:     []int{t1.ID, t2.ID, t3.ID},
		})
		if err != nil {
			return nil, fmt.Errorf("track 4: %w", err)
		}
		songs = append(songs, t3, t4)
	}

	return a.build(e.Key, e.Tempo, songs), nil
}

// FromSongs builds a unit from explicit songs, the first two primary.
func (a *Assembler) FromSongs(key, tempo int, songs []catalog.Song) (*Unit, error) {
	if len(songs) < 2 || len(songs) > 4 {
		return nil, fmt.Errorf("%w: got %d", ErrSongCount, len(songs))
	}
	return a.build(key, tempo, songs), nil
}

func (a *Assembler) build(key, tempo int, songs []catalog.Song) *Unit {
	a.seq++
	u := &Unit{
		Seq:           a.seq,
		Key:           key,
		Tempo:         tempo,
		IntroDuration: a.timing.Intro(tempo),
		MainDuration:  a.timing.Main(tempo),
	}
	u.Tracks[0] = a.resolver.Track(songs[0], a.timing)
	u.Tracks[1] = a.resolver.Track(songs[1], a.timing)
	for _, s := range songs[2:] {
		u.Hidden = append(u.Hidden, a.resolver.Track(s, a.timing))
	}
	return u
}
