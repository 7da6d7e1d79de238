package playback

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/llehouerou/duet/internal/assets"
	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/clock"
	"github.com/llehouerou/duet/internal/config"
	"github.com/llehouerou/duet/internal/mix"
	"github.com/llehouerou/duet/internal/modes"
	"github.com/llehouerou/duet/internal/player"
	"github.com/llehouerou/duet/internal/playlist"
	"github.com/llehouerou/duet/internal/progression"
	"github.com/llehouerou/duet/internal/selector"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

const commandBufferSize = 64

type serviceImpl struct {
	engine  player.Engine
	loader  *assets.Loader
	sel     *selector.Selector
	asm     *mix.Assembler
	prog    *progression.Progression
	history *mix.History
	modes   *modes.Set
	tl      *timeline
	clock   clock.Clock
	cfg     config.PlaybackConfig
	logger  zerolog.Logger

	cmds      chan func()
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	snap atomic.Pointer[Snapshot]

	subs   []*Subscription
	subsMu sync.RWMutex

	// Owned by the loop goroutine.
	state   State
	key     int
	tempo   int
	epoch   uint64
	current *scheduled
	ahead   []*scheduled
	loading *pendingLoad
	retry   clock.Timer
	preset  []*mix.Unit
}

// New creates the scheduler and starts its loop. Close stops it.
func New(opts Options) Service {
	c := opts.Clock
	if c == nil {
		c = clock.Real()
	}
	cfg := opts.Playback
	cfg.LookAhead = max(cfg.LookAhead, 1)

	s := &serviceImpl{
		engine:  opts.Engine,
		loader:  opts.Loader,
		sel:     opts.Selector,
		asm:     opts.Assembler,
		history: mix.NewHistory(cfg.HistorySize),
		clock:   c,
		cfg:     cfg,
		logger:  opts.Logger,
		cmds:    make(chan func(), commandBufferSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		key:     catalog.WrapKey(cfg.StartKey),
		tempo:   cfg.StartTempo,
	}
	s.prog = progression.New(s.sel.Library(), s.key, s.tempo, opts.Progression)
	s.tl = newTimeline(s.engine, c, s.post)
	s.modes = modes.NewSet(s.engine, s.tl, opts.Modes, func() int { return s.tempo }, s.logger)
	s.publish()

	go s.run()
	return s
}

func (s *serviceImpl) run() {
	defer close(s.stopped)
	for {
		select {
		case <-s.done:
			return
		case fn := <-s.cmds:
			fn()
		}
	}
}

// post queues fn on the loop. It is dropped once the service is closed.
func (s *serviceImpl) post(fn func()) {
	select {
	case <-s.done:
	case s.cmds <- fn:
	}
}

// do runs fn on the loop and waits for it.
func (s *serviceImpl) do(fn func() error) error {
	_, err := call(s, func() (struct{}, error) { return struct{}{}, fn() })
	return err
}

func call[T any](s *serviceImpl, fn func() (T, error)) (T, error) {
	var zero T
	select {
	case <-s.done:
		return zero, ErrClosed
	default:
	}
	type result struct {
		v   T
		err error
	}
	res := make(chan result, 1)
	select {
	case <-s.done:
		return zero, ErrClosed
	case s.cmds <- func() {
		v, err := fn()
		res <- result{v, err}
	}:
	}
	select {
	case <-s.done:
		return zero, ErrClosed
	case r := <-res:
		return r.v, r.err
	}
}

// Play starts playback from idle or resumes it from pause.
func (s *serviceImpl) Play() error {
	return s.do(s.play)
}

// Pause suspends the engine and the notification timers.
func (s *serviceImpl) Pause() error {
	return s.do(func() error {
		s.pause()
		return nil
	})
}

// Stop tears everything down and returns to idle.
func (s *serviceImpl) Stop() error {
	return s.do(func() error {
		s.stop()
		return nil
	})
}

// Next skips to the following unit.
func (s *serviceImpl) Next() error {
	return s.do(func() error {
		s.next()
		return nil
	})
}

// Previous replays the unit played before the audible one.
func (s *serviceImpl) Previous() error {
	return s.do(func() error {
		s.previous()
		return nil
	})
}

// SetKey changes the key the next units are built for.
func (s *serviceImpl) SetKey(key int) error {
	if key < catalog.MinKey || key > catalog.MaxKey {
		return fmt.Errorf("%w: %d", catalog.ErrInvalidKey, key)
	}
	return s.do(func() error {
		s.retarget(key, s.tempo)
		return nil
	})
}

// SetTempo changes the tempo the next units are built for.
func (s *serviceImpl) SetTempo(tempo int) error {
	return s.do(func() error {
		if tempos := s.sel.Library().Tempos(); len(tempos) > 0 && !slices.Contains(tempos, tempo) {
			return fmt.Errorf("%w: %d", catalog.ErrInvalidTempo, tempo)
		}
		s.retarget(s.key, tempo)
		return nil
	})
}

// ToggleAlternate flips alternate-track mode and returns its new state.
func (s *serviceImpl) ToggleAlternate() (bool, error) {
	return call(s, func() (bool, error) {
		on := s.modes.ToggleAlternate()
		s.publish()
		return on, nil
	})
}

// ToggleRecombine flips frequency recombination and returns its new state.
func (s *serviceImpl) ToggleRecombine() (bool, error) {
	return call(s, func() (bool, error) {
		on := s.modes.ToggleRecombine()
		s.publish()
		return on, nil
	})
}

// SetAlternateVolume sets the gain of the audible hidden track, clamped to [0, 1].
func (s *serviceImpl) SetAlternateVolume(v float64) error {
	return s.do(func() error {
		s.modes.Alternate().SetVolume(v)
		s.publish()
		return nil
	})
}

// Playlist returns the played units, the audible one and the next ones.
func (s *serviceImpl) Playlist() []playlist.Entry {
	entries, _ := call(s, func() ([]playlist.Entry, error) {
		return s.playlist(), nil
	})
	return entries
}

// SetPlaylist queues units built from entries ahead of the progression.
func (s *serviceImpl) SetPlaylist(entries []playlist.Entry) error {
	return s.do(func() error {
		_, err := s.setPlaylist(entries)
		return err
	})
}

// ExportPlaylist returns the token of Playlist.
func (s *serviceImpl) ExportPlaylist() string {
	return playlist.Encode(s.Playlist())
}

// ImportPlaylist decodes token against the library and queues its units. It returns
// the number of units queued.
func (s *serviceImpl) ImportPlaylist(token string) (int, error) {
	return call(s, func() (int, error) {
		entries, err := playlist.Decode(token, s.sel.Library())
		if err != nil {
			return 0, err
		}
		return s.setPlaylist(entries)
	})
}

// UpdateSongs replaces the library. Units already scheduled keep playing.
func (s *serviceImpl) UpdateSongs(lib *catalog.Library) error {
	return s.do(func() error {
		s.sel.SetLibrary(lib)
		s.prog.SetLibrary(lib)
		s.logger.Info().Int("songs", lib.Len()).Msg("library updated")
		s.publish()
		return nil
	})
}

// Snapshot returns the latest state with the audio clock read now.
func (s *serviceImpl) Snapshot() Snapshot {
	snap := *s.snap.Load()
	snap.Now = s.engine.Now()
	return snap
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	select {
	case <-s.done:
		sub.close()
	default:
		s.subs = append(s.subs, sub)
	}
	return sub
}

// Unsubscribe stops event delivery to sub and closes its Done channel.
func (s *serviceImpl) Unsubscribe(sub *Subscription) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	i := slices.Index(s.subs, sub)
	if i < 0 {
		return
	}
	s.subs = slices.Delete(s.subs, i, i+1)
	sub.close()
}

// Close stops playback and the loop. The engine is left to its owner.
func (s *serviceImpl) Close() error {
	s.closeOnce.Do(func() {
		_ = s.do(func() error {
			s.stop()
			return nil
		})
		close(s.done)
		<-s.stopped

		s.subsMu.Lock()
		for _, sub := range s.subs {
			sub.close()
		}
		s.subs = nil
		s.subsMu.Unlock()
	})
	return nil
}
