// Package playlist encodes played units as shareable tokens.
//
// A token lists entries separated by "_". Each entry is its key, tempo and 2 to 4 song
// ids separated by ".":
//
//	3.84.12.40_4.84.7.19.22.31
//
// Both separators are URL-safe, so a token can travel in a query string unescaped.
package playlist

import (
	"errors"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/llehouerou/duet/internal/catalog"
)

const (
	fieldSep = "."
	entrySep = "_"

	minSongs = 2
	maxSongs = 4
)

// ErrEmpty is returned when a token holds no usable entry.
var ErrEmpty = errors.New("playlist has no valid entry")

// Entry is one unit of a playlist: key, tempo and song ids in slot order.
type Entry struct {
	Key   int
	Tempo int
	IDs   []int
}

// Valid reports whether the entry can be played.
func (e Entry) Valid() bool {
	return e.Key >= catalog.MinKey && e.Key <= catalog.MaxKey && e.Tempo > 0 &&
		len(e.IDs) >= minSongs && len(e.IDs) <= maxSongs
}

func (e Entry) String() string {
	fields := make([]string, 0, 2+len(e.IDs))
	fields = append(fields, strconv.Itoa(e.Key), strconv.Itoa(e.Tempo))
	for _, id := range e.IDs {
		fields = append(fields, strconv.Itoa(id))
	}
	return strings.Join(fields, fieldSep)
}

// Encode returns the token for entries. Invalid entries are left out.
func Encode(entries []Entry) string {
	valid := lo.Filter(entries, func(e Entry, _ int) bool { return e.Valid() })
	return strings.Join(lo.Map(valid, func(e Entry, _ int) string { return e.String() }), entrySep)
}

// Parse reads the entries of token. Malformed entries are skipped; the rest of the
// token is still read.
func Parse(token string) []Entry {
	var entries []Entry
	for raw := range strings.SplitSeq(strings.TrimSpace(token), entrySep) {
		if e, ok := parseEntry(raw); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func parseEntry(raw string) (Entry, bool) {
	fields := strings.Split(raw, fieldSep)
	if len(fields) < 2+minSongs || len(fields) > 2+maxSongs {
		return Entry{}, false
	}
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Entry{}, false
		}
		nums[i] = n
	}
	e := Entry{Key: nums[0], Tempo: nums[1], IDs: lo.Uniq(nums[2:])}
	return e, e.Valid()
}

// Resolve drops ids unknown to lib from each entry. Entries left with fewer than two
// songs are removed.
func Resolve(entries []Entry, lib *catalog.Library) []Entry {
	var out []Entry
	for _, e := range entries {
		e.IDs = lo.Filter(e.IDs, func(id int, _ int) bool {
			_, ok := lib.ByID(id)
			return ok
		})
		if e.Valid() {
			out = append(out, e)
		}
	}
	return out
}

// Decode parses token and resolves it against lib.
func Decode(token string, lib *catalog.Library) ([]Entry, error) {
	entries := Resolve(Parse(token), lib)
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	return entries, nil
}

// Songs returns the songs of e found in lib, in slot order.
func Songs(e Entry, lib *catalog.Library) []catalog.Song {
	return lo.FilterMap(e.IDs, func(id int, _ int) (catalog.Song, bool) {
		return lib.ByID(id)
	})
}
