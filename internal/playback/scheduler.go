package playback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/llehouerou/duet/internal/errmsg"
	"github.com/llehouerou/duet/internal/mix"
	"github.com/llehouerou/duet/internal/modes"
	"github.com/llehouerou/duet/internal/player"
	"github.com/llehouerou/duet/internal/playlist"
	"github.com/llehouerou/duet/internal/selector"
)

// scheduled is a unit placed on the engine.
type scheduled struct {
	unit      *mix.Unit
	bufs      []*player.Buffer // intro then main per slot
	start     float64
	mainStart float64
	end       float64
	voices    []player.Voice
	cancels   []func()
}

func (u *scheduled) window() modes.Window {
	return modes.Window{Start: u.start, MainStart: u.mainStart, End: u.end, Tempo: u.unit.Tempo}
}

func (u *scheduled) cancelTimers() {
	for _, cancel := range u.cancels {
		cancel()
	}
	u.cancels = nil
}

func (u *scheduled) stopVoices() {
	for _, v := range u.voices {
		v.Stop()
	}
	u.voices = nil
}

// pendingLoad is the unit whose assets are being loaded.
type pendingLoad struct {
	unit   *mix.Unit
	cancel context.CancelFunc
}

func (s *serviceImpl) margin() float64 {
	return float64(s.cfg.StartMarginMS) / 1000
}

// tail returns the last scheduled unit.
func (s *serviceImpl) tail() *scheduled {
	if n := len(s.ahead); n > 0 {
		return s.ahead[n-1]
	}
	return s.current
}

func (s *serviceImpl) play() error {
	switch s.state {
	case StatePlaying:
		return nil
	case StatePaused:
		s.engine.Resume()
		s.tl.resume()
		s.setState(StatePlaying)
		return nil
	}

	if s.sel.Library().Len() == 0 && len(s.preset) == 0 {
		return selector.ErrEmptyLibrary
	}
	u, err := s.nextUnit()
	if err != nil {
		return fmt.Errorf("first unit: %w", err)
	}
	s.load(u)
	s.setState(StatePlaying)
	return nil
}

func (s *serviceImpl) pause() {
	if s.state != StatePlaying {
		return
	}
	s.engine.Suspend()
	s.tl.suspend()
	s.setState(StatePaused)
}

func (s *serviceImpl) stop() {
	if s.state == StateIdle {
		return
	}
	s.invalidate()
	s.clearScheduled()
	s.tl.clear()
	s.loader.Cache().Clear()
	if s.engine.State() == player.Suspended {
		s.engine.Resume()
	}
	s.logger.Info().Msg("playback stopped")
	s.setState(StateIdle)
}

// next restarts the units already scheduled after the audible one from now. When none
// is ready, the unit being loaded starts as soon as it arrives.
func (s *serviceImpl) next() {
	if !s.state.IsActive() {
		return
	}
	promoted := s.ahead
	s.ahead = nil
	s.clearScheduled()
	for _, su := range promoted {
		s.commit(su.unit, su.bufs)
	}
	s.fill()
	s.publish()
}

// previous replays the unit before the audible one. The selection history is left as is.
func (s *serviceImpl) previous() {
	if !s.state.IsActive() {
		return
	}
	prev, ok := s.history.Back()
	if !ok {
		return
	}
	s.invalidate()
	s.clearScheduled()
	s.load(prev)
	s.publish()
}

// retarget rebuilds everything after the audible unit for a new key and tempo.
func (s *serviceImpl) retarget(key, tempo int) {
	s.key, s.tempo = key, tempo
	if s.sel.Refresh() {
		s.logger.Info().Msg("selection history reset")
	}
	s.prog.Reset(key, tempo)
	if s.state.IsActive() {
		s.invalidate()
		s.dropAhead()
		s.fill()
	}
	s.publish()
}

func (s *serviceImpl) setPlaylist(entries []playlist.Entry) (int, error) {
	lib := s.sel.Library()
	var units []*mix.Unit
	for _, e := range entries {
		u, err := s.asm.FromSongs(e.Key, e.Tempo, playlist.Songs(e, lib))
		if err != nil {
			s.logger.Warn().Err(err).Str("entry", e.String()).Msg("playlist entry skipped")
			continue
		}
		units = append(units, u)
	}
	if len(units) == 0 {
		return 0, playlist.ErrEmpty
	}
	s.preset = units
	if s.state.IsActive() {
		s.invalidate()
		s.dropAhead()
		s.fill()
	}
	s.publish()
	return len(units), nil
}

func (s *serviceImpl) playlist() []playlist.Entry {
	units := s.history.Units()
	for _, su := range s.ahead {
		units = append(units, su.unit)
	}
	if s.loading != nil && s.current != nil {
		units = append(units, s.loading.unit)
	}
	entries := make([]playlist.Entry, 0, len(units))
	for _, u := range units {
		entries = append(entries, playlist.Entry{Key: u.Key, Tempo: u.Tempo, IDs: u.IDs()})
	}
	return entries
}

// nextUnit returns the next preset unit, or assembles one from the progression.
func (s *serviceImpl) nextUnit() (*mix.Unit, error) {
	if len(s.preset) > 0 {
		u := s.preset[0]
		s.preset = s.preset[1:]
		return u, nil
	}
	u, err := s.asm.Assemble(s.prog.Next())
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("seq", u.Seq).Int("key", u.Key).Int("tempo", u.Tempo).
		Ints("songs", u.IDs()).Msg("unit assembled")
	return u, nil
}

// fill requests the next unit when the look-ahead has room. A single load runs at a
// time and its completion calls fill again.
func (s *serviceImpl) fill() {
	if !s.state.IsActive() || s.loading != nil || s.retry != nil {
		return
	}
	if s.current != nil && len(s.ahead) >= s.cfg.LookAhead {
		return
	}
	u, err := s.nextUnit()
	if err != nil {
		s.fail(errmsg.OpUnitAssemble, err)
		s.scheduleRetry(nil)
		return
	}
	s.load(u)
}

// load fetches and decodes every asset of u off the loop.
func (s *serviceImpl) load(u *mix.Unit) {
	ctx, cancel := context.WithCancel(context.Background())
	s.loading = &pendingLoad{unit: u, cancel: cancel}
	epoch := s.epoch
	urls := u.URLs()
	go func() {
		bufs, err := s.loader.LoadAll(ctx, urls)
		s.post(func() { s.loaded(epoch, u, bufs, err) })
	}()
}

func (s *serviceImpl) loaded(epoch uint64, u *mix.Unit, bufs []*player.Buffer, err error) {
	if epoch != s.epoch || s.loading == nil || s.loading.unit != u {
		return
	}
	s.loading.cancel()
	s.loading = nil
	if err != nil {
		s.fail(errmsg.OpAssetLoad, fmt.Errorf("unit %d: %w", u.Seq, err))
		s.scheduleRetry(u)
		return
	}
	s.commit(u, bufs)
	s.fill()
}

// scheduleRetry loads u again, or requests a new unit when u is nil, after the
// retry delay. The audible unit is not affected.
func (s *serviceImpl) scheduleRetry(u *mix.Unit) {
	epoch := s.epoch
	delay := time.Duration(s.cfg.RetryDelayMS) * time.Millisecond
	s.retry = s.clock.AfterFunc(delay, func() {
		s.post(func() { s.retried(epoch, u) })
	})
}

func (s *serviceImpl) retried(epoch uint64, u *mix.Unit) {
	if epoch != s.epoch || s.retry == nil {
		return
	}
	s.retry = nil
	if u == nil {
		s.fill()
		return
	}
	s.load(u)
}

// commit places u on the engine after the last scheduled unit, or from now when
// nothing is scheduled or the last unit already ended.
func (s *serviceImpl) commit(u *mix.Unit, bufs []*player.Buffer) {
	now := s.engine.Now()
	start := now + s.margin()
	if tail := s.tail(); tail != nil && tail.end > now {
		start = tail.end
	}
	su := &scheduled{unit: u, bufs: bufs, start: start}
	su.mainStart = start + u.IntroDuration
	su.end = su.mainStart + u.MainDuration

	for slot := range u.All() {
		s.playAt(su, bufs[2*slot], slot, su.start)
		s.playAt(su, bufs[2*slot+1], slot, su.mainStart)
	}
	su.cancels = []func(){
		s.tl.At(su.start, func() { s.unitStarted(su) }),
		s.tl.At(su.mainStart, func() { s.mainStarted(su) }),
		s.tl.At(su.end, func() { s.unitEnded(su) }),
	}

	s.logger.Info().Int("seq", u.Seq).Int("key", u.Key).Int("tempo", u.Tempo).
		Float64("start", su.start).Float64("main", su.mainStart).Float64("end", su.end).
		Msg("unit scheduled")

	if s.current == nil {
		s.makeCurrent(su)
	} else {
		s.ahead = append(s.ahead, su)
	}
	s.publish()
}

func (s *serviceImpl) playAt(su *scheduled, buf *player.Buffer, slot int, at float64) {
	v, err := s.engine.Play(buf, slot, at)
	if err != nil {
		s.fail(errmsg.OpUnitSchedule, fmt.Errorf("slot %d: %w", slot, err))
		return
	}
	su.voices = append(su.voices, v)
}

func (s *serviceImpl) makeCurrent(su *scheduled) {
	s.current = su
	s.history.Push(su.unit)
	s.modes.Attach(su.window())
}

func (s *serviceImpl) unitStarted(su *scheduled) {
	if len(s.ahead) > 0 && s.ahead[0] == su {
		s.ahead = s.ahead[1:]
		s.makeCurrent(su)
		s.publish()
	}
	s.emitUnit(startedEvent, UnitEvent{Unit: su.unit, At: su.start})
	s.fill()
}

func (s *serviceImpl) mainStarted(su *scheduled) {
	s.emitUnit(mainEvent, UnitEvent{Unit: su.unit, At: su.mainStart})
}

func (s *serviceImpl) unitEnded(su *scheduled) {
	s.emitUnit(endedEvent, UnitEvent{Unit: su.unit, At: su.end})
	if su == s.current && len(s.ahead) == 0 {
		s.logger.Warn().Int("seq", su.unit.Seq).Bool("loading", s.loading != nil).
			Msg("unit ended with no successor")
	}
}

// invalidate drops the pending load and retry. Results still in flight are ignored.
func (s *serviceImpl) invalidate() {
	s.epoch++
	if s.loading != nil {
		s.loading.cancel()
		s.loading = nil
	}
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
}

// dropAhead unschedules every unit after the audible one.
func (s *serviceImpl) dropAhead() {
	for _, su := range s.ahead {
		su.cancelTimers()
		su.stopVoices()
	}
	s.ahead = nil
}

// clearScheduled silences the engine and forgets every scheduled unit.
func (s *serviceImpl) clearScheduled() {
	s.modes.Detach()
	if s.current != nil {
		s.current.cancelTimers()
	}
	for _, su := range s.ahead {
		su.cancelTimers()
	}
	s.engine.StopAll()
	s.current = nil
	s.ahead = nil
}

func (s *serviceImpl) setState(st State) {
	if st != s.state {
		s.logger.Debug().Stringer("from", s.state).Stringer("to", st).Msg("state change")
	}
	s.state = st
	s.publish()
}

// publish stores a new snapshot and sends it to subscribers.
func (s *serviceImpl) publish() {
	snap := Snapshot{
		State:           s.state,
		Key:             s.key,
		Tempo:           s.tempo,
		TargetKey:       s.key,
		TargetTempo:     s.tempo,
		Mode:            s.modes.Active(),
		AlternateVolume: s.modes.Alternate().Volume(),
		Cursor:          s.prog.Cursor(),
		Steps:           s.prog.Len(),
		CanGoBack:       s.history.CanGoBack(),
		Loading:         s.loading != nil,
		Played:          s.sel.Played(),
		Wave:            s.sel.Wave(),
	}
	if lib := s.sel.Library(); lib != nil {
		snap.Songs = lib.Len()
	}
	if cur := s.current; cur != nil {
		snap.Unit = cur.unit.Clone()
		snap.Key, snap.Tempo = cur.unit.Key, cur.unit.Tempo
		snap.Start, snap.MainStart, snap.End = cur.start, cur.mainStart, cur.end
	}
	switch {
	case len(s.ahead) > 0:
		snap.Next = s.ahead[0].unit.Clone()
	case s.loading != nil && s.current != nil:
		// still loading; Loading tells the two apart
		snap.Next = s.loading.unit.Clone()
	}
	snap.Now = s.engine.Now()
	s.snap.Store(&snap)

	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendState(snap)
	}
}

type unitEventKind int

const (
	startedEvent unitEventKind = iota
	mainEvent
	endedEvent
)

func (s *serviceImpl) emitUnit(kind unitEventKind, e UnitEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		switch kind {
		case startedEvent:
			sub.sendStarted(e)
		case mainEvent:
			sub.sendMain(e)
		case endedEvent:
			sub.sendEnded(e)
		}
	}
}

// fail reports err to subscribers. Scheduling carries on.
func (s *serviceImpl) fail(op errmsg.Op, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.logger.Error().Err(err).Str("op", string(op)).Msg("playback error")
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(ErrorEvent{Op: op, Err: err})
	}
}
