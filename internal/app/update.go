package app

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/errmsg"
	"github.com/llehouerou/duet/internal/keymap"
	"github.com/llehouerou/duet/internal/playback"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case TickMsg:
		m.snap = m.Playback.Snapshot()
		return m, TickCmd()

	case SnapshotMsg:
		m.snap = playback.Snapshot(msg)
		return m, WatchServiceEvents(m.playbackSub)

	case UnitStartedMsg:
		m.snap = m.Playback.Snapshot()
		m.SaveSession()
		return m, tea.Batch(
			WatchServiceEvents(m.playbackSub),
			NotifyUnitCmd(m.Notifier, msg.Unit, m.notifyID),
		)

	case NotifiedMsg:
		m.notifyID = msg.ID
		return m, nil

	case StderrMsg:
		m.Logger.Warn().Str("line", msg.Line).Msg("audio backend")
		m.setError(msg.Line)
		return m, WatchStderr(m.Stderr)

	case ServiceErrorMsg:
		m.setError(errmsg.Format(msg.Op, msg.Err))
		return m, WatchServiceEvents(m.playbackSub)

	case ServiceClosedMsg:
		return m, tea.Quit

	case PlaylistSavedMsg:
		m.setStatus("saved playlist " + msg.Name)
		return m, nil

	case PlaylistLoadedMsg:
		m.setStatus("queued " + msg.Name)
		m.snap = m.Playback.Snapshot()
		return m, nil

	case ActionErrorMsg:
		m.setError(msg.Text)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	action := m.Keys.Resolve(key)
	if action == "" {
		return m, nil
	}
	m.Status, m.StatusErr = "", false

	var cmd tea.Cmd
	switch action { //nolint:exhaustive // remaining actions fall through to the session save
	case keymap.ActionQuit:
		m.SaveSession()
		m.Playback.Unsubscribe(m.playbackSub)
		return m, tea.Quit
	case keymap.ActionHelp:
		m.ShowHelp = !m.ShowHelp
		return m, nil
	case keymap.ActionPlayPause:
		m.report(errmsg.OpPlaybackStart, m.togglePlay())
	case keymap.ActionStop:
		m.report(errmsg.OpPlaybackStart, m.Playback.Stop())
	case keymap.ActionNextUnit:
		m.report(errmsg.OpPlaybackSkip, m.Playback.Next())
	case keymap.ActionPrevUnit:
		m.report(errmsg.OpPlaybackPrevious, m.Playback.Previous())
	case keymap.ActionKeyUp:
		m.report(errmsg.OpPlaybackKey, m.Playback.SetKey(catalog.WrapKey(m.snap.TargetKey+1)))
	case keymap.ActionKeyDown:
		m.report(errmsg.OpPlaybackKey, m.Playback.SetKey(catalog.WrapKey(m.snap.TargetKey-1)))
	case keymap.ActionTempoUp:
		m.report(errmsg.OpPlaybackTempo, m.stepTempo(1))
	case keymap.ActionTempoDown:
		m.report(errmsg.OpPlaybackTempo, m.stepTempo(-1))
	case keymap.ActionToggleAlternate:
		_, err := m.Playback.ToggleAlternate()
		m.report(errmsg.OpModeAlternate, err)
	case keymap.ActionToggleRecombine:
		_, err := m.Playback.ToggleRecombine()
		m.report(errmsg.OpModeRecombine, err)
	case keymap.ActionVolumeUp:
		m.report(errmsg.OpModeAlternate, m.Playback.SetAlternateVolume(m.snap.AlternateVolume+volumeStep))
	case keymap.ActionVolumeDown:
		m.report(errmsg.OpModeAlternate, m.Playback.SetAlternateVolume(m.snap.AlternateVolume-volumeStep))
	case keymap.ActionExportPlaylist:
		token := m.Playback.ExportPlaylist()
		if token == "" {
			m.setError("nothing to export yet")
		} else {
			m.setStatus(token)
			m.Logger.Info().Str("token", token).Msg("playlist exported")
		}
		return m, nil
	case keymap.ActionSavePlaylist:
		token := m.Playback.ExportPlaylist()
		if token == "" {
			m.setError("nothing to save yet")
			return m, nil
		}
		return m, SavePlaylistCmd(m.StateMgr, token, m.now())
	case keymap.ActionLoadPlaylist:
		cmd = LoadLastPlaylistCmd(m.StateMgr, m.Playback)
	}

	m.snap = m.Playback.Snapshot()
	m.SaveSession()
	return m, cmd
}

func (m *Model) togglePlay() error {
	if m.snap.State == playback.StatePlaying {
		return m.Playback.Pause()
	}
	return m.Playback.Play()
}

// stepTempo moves the target tempo dir steps along the library tempo set.
func (m *Model) stepTempo(dir int) error {
	if len(m.tempos) == 0 {
		return nil
	}
	i := slices.Index(m.tempos, m.snap.TargetTempo)
	if i < 0 {
		i = 0
	} else {
		i = min(max(i+dir, 0), len(m.tempos)-1)
	}
	if m.tempos[i] == m.snap.TargetTempo {
		return nil
	}
	return m.Playback.SetTempo(m.tempos[i])
}

func (m *Model) report(op errmsg.Op, err error) {
	if err == nil {
		return
	}
	m.Logger.Warn().Err(err).Str("op", string(op)).Msg("action failed")
	m.setError(errmsg.Format(op, err))
}

func (m *Model) setStatus(s string) {
	m.Status, m.StatusErr = s, false
}

func (m *Model) setError(s string) {
	m.Status, m.StatusErr = s, true
}
