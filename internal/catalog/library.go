package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// ErrEmptyLibrary is returned when an operation needs at least one song.
var ErrEmptyLibrary = errors.New("library is empty")

// Library is a read-only, indexed set of songs.
type Library struct {
	songs   []Song
	byID    map[int]Song
	byTempo map[int][]Song
	tempos  []int
}

// New validates songs and builds a library. An empty allowed set accepts any tempo.
func New(songs []Song, allowedTempos []int) (*Library, error) {
	byID := make(map[int]Song, len(songs))
	for _, s := range songs {
		if _, dup := byID[s.ID]; dup {
			return nil, fmt.Errorf("song %d: %w", s.ID, ErrDuplicateID)
		}
		if err := s.Validate(allowedTempos); err != nil {
			return nil, err
		}
		byID[s.ID] = s
	}

	own := slices.Clone(songs)
	slices.SortFunc(own, func(a, b Song) int { return a.ID - b.ID })

	byTempo := lo.GroupBy(own, func(s Song) int { return s.Tempo })
	tempos := lo.Keys(byTempo)
	slices.Sort(tempos)

	return &Library{
		songs:   own,
		byID:    byID,
		byTempo: byTempo,
		tempos:  tempos,
	}, nil
}

// MustNew is New for fixtures; it panics on invalid input.
func MustNew(songs []Song, allowedTempos []int) *Library {
	lib, err := New(songs, allowedTempos)
	if err != nil {
		panic(err)
	}
	return lib
}

// Len returns the number of songs.
func (l *Library) Len() int { return len(l.songs) }

// Songs returns a copy of all songs ordered by id.
func (l *Library) Songs() []Song { return slices.Clone(l.songs) }

// ByID looks up a song.
func (l *Library) ByID(id int) (Song, bool) {
	s, ok := l.byID[id]
	return s, ok
}

// AtTempo returns the songs at exactly the given tempo.
func (l *Library) AtTempo(tempo int) []Song {
	return slices.Clone(l.byTempo[tempo])
}

// CountAtTempo returns how many songs have the given tempo.
func (l *Library) CountAtTempo(tempo int) int { return len(l.byTempo[tempo]) }

// Tempos returns the tempos present in the library, ascending.
func (l *Library) Tempos() []int { return slices.Clone(l.tempos) }
