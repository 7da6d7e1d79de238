// Package selector picks the next song for a unit from the library, honouring the
// pairing rules and spreading plays over the whole catalog in waves.
package selector

import (
	"cmp"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/config"
	"github.com/llehouerou/duet/internal/rng"
	"github.com/llehouerou/duet/internal/scoring"
)

// ErrEmptyLibrary is returned when there is nothing to select from.
var ErrEmptyLibrary = catalog.ErrEmptyLibrary

// Request describes one selection.
type Request struct {
	Tempo        int
	Key          int
	Partner      *catalog.Song // song the result must pair with, nil for a first track
	AvoidArtists []string      // soft: penalised, dropped when nothing else fits
	AvoidIDs     []int         // excluded unless only the last resort is left
}

// Selector is safe for concurrent use.
type Selector struct {
	mu      sync.Mutex
	lib     *catalog.Library
	history *History
	scorer  *scoring.Scorer
	src     rng.Source
	cfg     config.SelectorConfig
	logger  zerolog.Logger
}

// New creates a selector over lib.
func New(lib *catalog.Library, cfg config.SelectorConfig, src rng.Source, logger zerolog.Logger) *Selector {
	h := NewHistory(cfg.RecentSize)
	return &Selector{
		lib:     lib,
		history: h,
		scorer:  scoring.New(scoring.DefaultWeights(), nil, scoring.ParseLensPolicy(cfg.LensPolicy), h, src),
		src:     src,
		cfg:     cfg,
		logger:  logger,
	}
}

type candidate struct {
	song  catalog.Song
	score float64
}

// SelectNext returns the next song for req and records it in the history.
func (s *Selector) SelectNext(req Request) (catalog.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lib == nil || s.lib.Len() == 0 {
		return catalog.Song{}, ErrEmptyLibrary
	}

	s.resetIfExhausted()

	round := s.scorer.NewRound()
	crit := scoring.Criteria{
		TargetTempo:  req.Tempo,
		TargetKey:    req.Key,
		Partner:      req.Partner,
		AvoidArtists: req.AvoidArtists,
	}

	pool := s.pool(req.Tempo)
	song, ok := s.pick(round, pool, crit, req.AvoidIDs)
	if !ok {
		crit.AvoidArtists = nil
		// Played songs at the target tempo come before any other tempo.
		if atTempo := s.lib.AtTempo(req.Tempo); len(atTempo) > len(pool) {
			song, ok = s.pick(round, atTempo, crit, req.AvoidIDs)
		}
		if !ok {
			song, ok = s.pick(round, s.lib.Songs(), crit, req.AvoidIDs)
		}
		if ok {
			s.logger.Debug().Int("tempo", req.Tempo).Int("key", req.Key).Msg("selection relaxed")
		}
	}
	if !ok {
		song = s.lastResort(req)
		s.logger.Warn().Int("tempo", req.Tempo).Int("key", req.Key).Int("song", song.ID).
			Msg("no valid candidate, using last resort")
	}

	s.history.record(song, req.Partner)
	return song, nil
}

// pool returns the unplayed songs at tempo, all songs at tempo when every one of them
// was played, or the whole library when the tempo has no songs.
func (s *Selector) pool(tempo int) []catalog.Song {
	atTempo := s.lib.AtTempo(tempo)
	if len(atTempo) == 0 {
		return s.lib.Songs()
	}
	unplayed := lo.Filter(atTempo, func(song catalog.Song, _ int) bool {
		return !s.history.IsPlayed(song.ID)
	})
	if len(unplayed) > 0 {
		return unplayed
	}
	return atTempo
}

func (s *Selector) pick(round *scoring.Round, pool []catalog.Song, crit scoring.Criteria, avoidIDs []int) (catalog.Song, bool) {
	candidates := make([]candidate, 0, len(pool))
	for _, song := range pool {
		if slices.Contains(avoidIDs, song.ID) {
			continue
		}
		score := round.Score(song, crit)
		if score == scoring.Invalid {
			continue
		}
		candidates = append(candidates, candidate{song: song, score: score})
	}
	if len(candidates) == 0 {
		return catalog.Song{}, false
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Compare(b.score, a.score)
	})
	shortlist := candidates[:min(len(candidates), max(s.cfg.ShortlistSize, 1))]
	return shortlist[rng.Intn(s.src, len(shortlist))].song, true
}

func (s *Selector) lastResort(req Request) catalog.Song {
	songs := s.lib.Songs()
	notPartner := lo.Filter(songs, func(song catalog.Song, _ int) bool {
		return req.Partner == nil || song.ID != req.Partner.ID
	})
	preferred := lo.Filter(notPartner, func(song catalog.Song, _ int) bool {
		return !slices.Contains(req.AvoidIDs, song.ID)
	})
	switch {
	case len(preferred) > 0:
		return preferred[rng.Intn(s.src, len(preferred))]
	case len(notPartner) > 0:
		return notPartner[rng.Intn(s.src, len(notPartner))]
	default:
		return songs[rng.Intn(s.src, len(songs))]
	}
}

// threshold is the unplayed count below which a new wave starts. It never exceeds a
// quarter of the library so small libraries still cover most songs per wave.
func (s *Selector) threshold() int {
	return max(1, min(s.cfg.ResetThreshold, s.lib.Len()/4))
}

func (s *Selector) unplayedCount() int {
	return lo.CountBy(s.lib.Songs(), func(song catalog.Song) bool {
		return !s.history.IsPlayed(song.ID)
	})
}

func (s *Selector) resetIfExhausted() bool {
	unplayed := s.unplayedCount()
	if unplayed >= s.threshold() {
		return false
	}
	s.logger.Info().Int("played", s.history.PlayedCount()).Int("unplayed", unplayed).
		Msg("starting new selection wave")
	s.history.newWave()
	return true
}

// Refresh starts a new wave if the unplayed pool is already below the threshold.
// Called when the key or tempo changes.
func (s *Selector) Refresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lib == nil || s.lib.Len() == 0 {
		return false
	}
	return s.resetIfExhausted()
}

// SetLibrary replaces the library and clears the history.
func (s *Selector) SetLibrary(lib *catalog.Library) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lib = lib
	s.history.reset()
}

// Library returns the current library.
func (s *Selector) Library() *catalog.Library {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lib
}

// Played returns the number of songs played in the current wave.
func (s *Selector) Played() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.PlayedCount()
}

// Wave returns how many coverage waves have completed.
func (s *Selector) Wave() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Wave()
}

// RecentArtists returns up to n distinct recently selected artists, newest first.
func (s *Selector) RecentArtists(n int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.RecentArtists(n)
}

// IsPairPlayed reports whether two songs were already paired in the current wave.
func (s *Selector) IsPairPlayed(a, b int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.IsPairPlayed(a, b)
}
