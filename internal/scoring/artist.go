package scoring

import (
	"strings"
	"unicode"
)

// NormalizeArtist lowercases s, drops punctuation and collapses whitespace so that
// differently written credits of the same artist compare equal.
func NormalizeArtist(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	lastWasSpace := true // trims leading spaces

	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastWasSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '/' || r == ',' || r == '&':
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// SameArtist reports whether two artist credits refer to the same artist. Either
// normalized credit contained in the other counts as a match, so "X" matches
// "X feat. Y". Containment is plain substring: "Ana" also matches "Santana".
func SameArtist(a, b string) bool {
	na, nb := NormalizeArtist(a), NormalizeArtist(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// CountArtistMatches returns how many entries of avoid match artist.
func CountArtistMatches(artist string, avoid []string) int {
	n := 0
	for _, a := range avoid {
		if SameArtist(artist, a) {
			n++
		}
	}
	return n
}
