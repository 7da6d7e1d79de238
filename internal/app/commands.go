package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/duet/internal/errmsg"
	"github.com/llehouerou/duet/internal/mix"
	"github.com/llehouerou/duet/internal/notify"
	"github.com/llehouerou/duet/internal/playback"
	"github.com/llehouerou/duet/internal/state"
)

const tickInterval = 250 * time.Millisecond

var errNoSavedPlaylist = errors.New("no saved playlist")

// TickCmd returns a command that sends TickMsg after tickInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchServiceEvents returns a command that waits for the next scheduler event.
// It listens on all subscription channels and converts events to tea.Msg.
func WatchServiceEvents(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case snap := <-sub.StateChanged:
				return SnapshotMsg(snap)
			case e := <-sub.UnitStarted:
				return UnitStartedMsg(e)
			case <-sub.MainStarted:
				// drained; the tick redraws the progress bar
			case <-sub.UnitEnded:
			case e := <-sub.Error:
				return ServiceErrorMsg(e)
			case <-sub.Done:
				return ServiceClosedMsg{}
			}
		}
	}
}

// NotifyUnitCmd shows u as a desktop notification, replacing the previous one.
func NotifyUnitCmd(n notify.Notifier, u *mix.Unit, replaces uint32) tea.Cmd {
	if n == nil || u == nil {
		return nil
	}
	return func() tea.Msg {
		id, err := n.Notify(notify.ForUnit(u, replaces))
		if err != nil || id == 0 {
			return nil
		}
		return NotifiedMsg{ID: id}
	}
}

// WatchStderr waits for the next captured stderr line.
func WatchStderr(lines <-chan string) tea.Cmd {
	if lines == nil {
		return nil
	}
	return func() tea.Msg {
		line, ok := <-lines
		if !ok {
			return nil
		}
		return StderrMsg{Line: line}
	}
}

// SavePlaylistCmd stores token under a timestamped name.
func SavePlaylistCmd(store state.Interface, token string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		name := now.Format("2006-01-02 15:04:05")
		if err := store.SavePlaylist(name, token); err != nil {
			return ActionErrorMsg{Text: errmsg.Format(errmsg.OpPlaylistSave, err)}
		}
		return PlaylistSavedMsg{Name: name}
	}
}

// LoadLastPlaylistCmd queues the most recently saved playlist.
func LoadLastPlaylistCmd(store state.Interface, svc playback.Service) tea.Cmd {
	return func() tea.Msg {
		saved, err := store.ListPlaylists()
		if err == nil && len(saved) == 0 {
			err = errNoSavedPlaylist
		}
		if err != nil {
			return ActionErrorMsg{Text: errmsg.Format(errmsg.OpPlaylistLoad, err)}
		}
		units, err := svc.ImportPlaylist(saved[0].Token)
		if err != nil {
			return ActionErrorMsg{Text: errmsg.FormatWith(errmsg.OpPlaylistLoad, saved[0].Name, err)}
		}
		return PlaylistLoadedMsg{Name: saved[0].Name, Units: units}
	}
}
