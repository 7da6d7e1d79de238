package app

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/duet/internal/errmsg"
	"github.com/llehouerou/duet/internal/playback"
	"github.com/llehouerou/duet/internal/state"
)

// SaveSession stores the playlist token and targets. The write is debounced by the
// state manager.
func (m Model) SaveSession() {
	if m.StateMgr == nil {
		return
	}
	m.StateMgr.SaveSession(state.Session{
		Token:           m.Playback.ExportPlaylist(),
		Key:             m.snap.TargetKey,
		Tempo:           m.snap.TargetTempo,
		AlternateVolume: m.snap.AlternateVolume,
	})
}

// RestoreSession applies the last saved session to svc: targets and hidden-track
// volume first, then the saved playlist queued ahead of the progression. Parts that
// no longer apply, like a tempo dropped from the library, are logged and skipped.
func RestoreSession(svc playback.Service, stateMgr state.Interface, logger zerolog.Logger) {
	sess, err := stateMgr.GetSession()
	if err != nil {
		logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpSessionRestore, err))
		return
	}
	if sess == nil {
		return
	}

	if err := svc.SetKey(sess.Key); err != nil {
		logger.Warn().Err(err).Int("key", sess.Key).Msg("saved key skipped")
	}
	if err := svc.SetTempo(sess.Tempo); err != nil {
		logger.Warn().Err(err).Int("tempo", sess.Tempo).Msg("saved tempo skipped")
	}
	if err := svc.SetAlternateVolume(sess.AlternateVolume); err != nil {
		logger.Warn().Err(err).Msg("saved volume skipped")
	}
	if sess.Token == "" {
		return
	}
	n, err := svc.ImportPlaylist(sess.Token)
	if err != nil {
		logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpSessionRestore, err))
		return
	}
	logger.Info().Int("units", n).Msg("session restored")
}
