package selector

import "github.com/llehouerou/duet/internal/catalog"

// History records what the selector has handed out: played songs, played pairs and a
// bounded list of recent selections.
type History struct {
	played     map[int]struct{}
	pairs      map[[2]int]struct{}
	recent     []catalog.Song // oldest first
	recentSize int
	wave       int
}

// NewHistory creates an empty history whose recent list holds recentSize songs.
func NewHistory(recentSize int) *History {
	return &History{
		played:     make(map[int]struct{}),
		pairs:      make(map[[2]int]struct{}),
		recentSize: max(recentSize, 1),
	}
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// IsPlayed reports whether the song was selected in the current wave.
func (h *History) IsPlayed(id int) bool {
	_, ok := h.played[id]
	return ok
}

// IsPairPlayed reports whether the unordered pair was selected in the current wave.
func (h *History) IsPairPlayed(a, b int) bool {
	_, ok := h.pairs[pairKey(a, b)]
	return ok
}

// Recency implements scoring.History.
func (h *History) Recency(id int) float64 {
	n := len(h.recent)
	for i := n - 1; i >= 0; i-- {
		if h.recent[i].ID == id {
			age := n - 1 - i
			return float64(h.recentSize-age) / float64(h.recentSize)
		}
	}
	return 0
}

// PlayedCount returns the number of songs played in the current wave.
func (h *History) PlayedCount() int { return len(h.played) }

// Wave returns how many coverage waves have completed.
func (h *History) Wave() int { return h.wave }

// PairCount returns the number of pairs played in the current wave.
func (h *History) PairCount() int { return len(h.pairs) }

func (h *History) record(song catalog.Song, partner *catalog.Song) {
	h.played[song.ID] = struct{}{}
	if partner != nil {
		h.pairs[pairKey(song.ID, partner.ID)] = struct{}{}
	}
	h.recent = append(h.recent, song)
	if len(h.recent) > h.recentSize {
		h.recent = h.recent[len(h.recent)-h.recentSize:]
	}
}

// RecentArtists returns up to n distinct artists, most recent first.
func (h *History) RecentArtists(n int) []string {
	var artists []string
	seen := make(map[string]struct{})
	for i := len(h.recent) - 1; i >= 0 && len(artists) < n; i-- {
		a := h.recent[i].Artist
		if _, ok := seen[a]; ok || a == "" {
			continue
		}
		seen[a] = struct{}{}
		artists = append(artists, a)
	}
	return artists
}

// newWave clears played songs and pairs. The recent list survives so the first picks
// of the new wave still avoid what just played.
func (h *History) newWave() {
	h.wave++
	clear(h.played)
	clear(h.pairs)
}

func (h *History) reset() {
	h.newWave()
	h.recent = nil
}
