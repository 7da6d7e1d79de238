// Package catalog holds the static library of songs the mixer draws from.
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// Key range. Keys are positions on a ring of KeyCount steps.
const (
	MinKey   = 1
	MaxKey   = 10
	KeyCount = MaxKey - MinKey + 1
)

// DefaultTempos is the tempo set used when the configuration does not name one.
var DefaultTempos = []int{84, 94, 102}

var (
	ErrDuplicateID  = errors.New("duplicate song id")
	ErrInvalidKey   = errors.New("key out of range")
	ErrInvalidTempo = errors.New("tempo not in allowed set")
)

// Song is an immutable catalog entry.
type Song struct {
	ID     int
	Title  string
	Artist string
	Key    int
	Tempo  int
	Path   string // base asset path, intro and main assets live under it
}

// String returns "Artist - Title".
func (s Song) String() string {
	if s.Artist == "" {
		return s.Title
	}
	return s.Artist + " - " + s.Title
}

// Validate checks the key range and tempo membership.
func (s Song) Validate(tempos []int) error {
	if s.Key < MinKey || s.Key > MaxKey {
		return fmt.Errorf("song %d: %w: %d", s.ID, ErrInvalidKey, s.Key)
	}
	if len(tempos) > 0 && !slices.Contains(tempos, s.Tempo) {
		return fmt.Errorf("song %d: %w: %d", s.ID, ErrInvalidTempo, s.Tempo)
	}
	return nil
}

// WrapKey maps any integer onto the key ring.
func WrapKey(k int) int {
	k = (k - MinKey) % KeyCount
	if k < 0 {
		k += KeyCount
	}
	return k + MinKey
}

// KeyDistance returns the circular distance between two keys (0..KeyCount/2).
func KeyDistance(a, b int) int {
	d := (a - b) % KeyCount
	if d < 0 {
		d = -d
	}
	return min(d, KeyCount-d)
}
