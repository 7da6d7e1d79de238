package app

import (
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/errmsg"
	"github.com/llehouerou/duet/internal/mix"
	"github.com/llehouerou/duet/internal/notify"
	"github.com/llehouerou/duet/internal/playback"
	"github.com/llehouerou/duet/internal/playlist"
	"github.com/llehouerou/duet/internal/state"
)

// fakeService records the calls the model makes.
type fakeService struct {
	snap   playback.Snapshot
	calls  []string
	token  string
	err    error
	unsubs int
}

var _ playback.Service = (*fakeService)(nil)

func (f *fakeService) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.err
}

func (f *fakeService) Play() error { return f.record("play") }
func (f *fakeService) Pause() error { return f.record("pause") }
func (f *fakeService) Stop() error { return f.record("stop") }
func (f *fakeService) Next() error { return f.record("next") }
func (f *fakeService) Previous() error { return f.record("previous") }

func (f *fakeService) SetKey(key int) error {
	if err := f.record("key %d", key); err != nil {
		return err
	}
	f.snap.TargetKey = key
	return nil
}

func (f *fakeService) SetTempo(tempo int) error {
	if err := f.record("tempo %d", tempo); err != nil {
		return err
	}
	f.snap.TargetTempo = tempo
	return nil
}

func (f *fakeService) ToggleAlternate() (bool, error) { return true, f.record("alternate") }
func (f *fakeService) ToggleRecombine() (bool, error) { return true, f.record("recombine") }

func (f *fakeService) SetAlternateVolume(v float64) error {
	return f.record("volume %.1f", v)
}

func (f *fakeService) Playlist() []playlist.Entry { return nil }
func (f *fakeService) SetPlaylist(_ []playlist.Entry) error { return f.record("set playlist") }
func (f *fakeService) ExportPlaylist() string { return f.token }
func (f *fakeService) UpdateSongs(_ *catalog.Library) error { return f.record("update songs") }
func (f *fakeService) Snapshot() playback.Snapshot { return f.snap }
func (f *fakeService) Subscribe() *playback.Subscription { return nil }
func (f *fakeService) Unsubscribe(_ *playback.Subscription) { f.unsubs++ }
func (f *fakeService) Close() error { return nil }

func (f *fakeService) ImportPlaylist(token string) (int, error) {
	if err := f.record("import %s", token); err != nil {
		return 0, err
	}
	return 2, nil
}

func newTestModel() (Model, *fakeService, *state.Mock) {
	svc := &fakeService{snap: playback.Snapshot{
		State:           playback.StateIdle,
		Key:             3,
		Tempo:           94,
		TargetKey:       3,
		TargetTempo:     94,
		AlternateVolume: 0.5,
	}}
	store := state.NewMock()
	m := New(svc, store, []int{84, 94, 102}, zerolog.Nop())
	m.now = func() time.Time { return time.Date(2026, 3, 1, 20, 15, 0, 0, time.UTC) }
	return m, svc, store
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+o":
		msg = tea.KeyMsg{Type: tea.KeyCtrlO}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	require.True(t, ok, "Update should return Model")
	return result, cmd
}

func TestUpdate_Keys(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		calls []string
	}{
		{"play", []string{" "}, []string{"play"}},
		{"stop", []string{"s"}, []string{"stop"}},
		{"next and previous", []string{"n", "p"}, []string{"next", "previous"}},
		{"key up twice", []string{"k", "k"}, []string{"key 4", "key 5"}},
		{"key down", []string{"j"}, []string{"key 2"}},
		{"tempo up then capped", []string{"l", "l", "l"}, []string{"tempo 102"}},
		{"tempo down", []string{"h", "h"}, []string{"tempo 84"}},
		{"modes", []string{"a", "r"}, []string{"alternate", "recombine"}},
		{"hidden volume", []string{"+", "-"}, []string{"volume 0.6", "volume 0.4"}},
		{"unbound key", []string{"z"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, svc, _ := newTestModel()
			for _, k := range tt.keys {
				m, _ = press(t, m, k)
			}
			assert.Equal(t, tt.calls, svc.calls)
		})
	}
}

func TestUpdate_KeyWrapsAroundTheRing(t *testing.T) {
	m, svc, _ := newTestModel()
	svc.snap.TargetKey = catalog.MaxKey
	m.snap = svc.snap

	_, _ = press(t, m, "k")
	assert.Equal(t, []string{"key 1"}, svc.calls)
}

func TestUpdate_PlayPauseFollowsState(t *testing.T) {
	m, svc, _ := newTestModel()
	m.snap.State = playback.StatePlaying

	_, _ = press(t, m, " ")
	assert.Equal(t, []string{"pause"}, svc.calls)
}

func TestUpdate_ActionErrorShown(t *testing.T) {
	m, svc, _ := newTestModel()
	svc.err = errors.New("boom")

	m, _ = press(t, m, "n")
	assert.True(t, m.StatusErr)
	assert.Equal(t, errmsg.Format(errmsg.OpPlaybackSkip, svc.err), m.Status)
}

func TestUpdate_KeysSaveSession(t *testing.T) {
	m, svc, store := newTestModel()
	svc.token = "3.94.1.2"

	_, _ = press(t, m, "k")

	sess, err := store.GetSession()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, 4, sess.Key)
	assert.Equal(t, 94, sess.Tempo)
	assert.Equal(t, "3.94.1.2", sess.Token)
	assert.InDelta(t, 0.5, sess.AlternateVolume, 1e-9)
}

func TestUpdate_Export(t *testing.T) {
	m, svc, _ := newTestModel()

	m, _ = press(t, m, "e")
	assert.True(t, m.StatusErr, "nothing played yet")

	svc.token = "3.94.1.2_4.94.3.5"
	m, _ = press(t, m, "e")
	assert.False(t, m.StatusErr)
	assert.Equal(t, svc.token, m.Status)
}

func TestUpdate_SavePlaylist(t *testing.T) {
	m, svc, store := newTestModel()
	svc.token = "3.94.1.2"

	m, cmd := press(t, m, "ctrl+s")
	require.NotNil(t, cmd)
	msg := cmd()
	require.Equal(t, PlaylistSavedMsg{Name: "2026-03-01 20:15:00"}, msg)

	p, err := store.GetPlaylist("2026-03-01 20:15:00")
	require.NoError(t, err)
	assert.Equal(t, "3.94.1.2", p.Token)

	next, _ := m.Update(msg)
	assert.Contains(t, next.(Model).Status, "saved playlist")
}

func TestUpdate_LoadPlaylist(t *testing.T) {
	m, svc, store := newTestModel()

	_, cmd := press(t, m, "ctrl+o")
	require.NotNil(t, cmd)
	msg, ok := cmd().(ActionErrorMsg)
	require.True(t, ok)
	assert.Contains(t, msg.Text, errNoSavedPlaylist.Error())

	require.NoError(t, store.SavePlaylist("evening", "5.102.1.2"))
	_, cmd = press(t, m, "ctrl+o")
	assert.Equal(t, PlaylistLoadedMsg{Name: "evening", Units: 2}, cmd())
	assert.Contains(t, svc.calls, "import 5.102.1.2")
}

func TestUpdate_Quit(t *testing.T) {
	m, svc, store := newTestModel()

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1, svc.unsubs)
	sess, _ := store.GetSession()
	assert.NotNil(t, sess)
}

func TestUpdate_ServiceMessages(t *testing.T) {
	m, svc, _ := newTestModel()

	snap := svc.snap
	snap.State = playback.StatePlaying
	next, _ := m.Update(SnapshotMsg(snap))
	m = next.(Model)
	assert.Equal(t, playback.StatePlaying, m.Snapshot().State)

	next, _ = m.Update(ServiceErrorMsg{Op: errmsg.OpAssetLoad, Err: errors.New("404")})
	m = next.(Model)
	assert.True(t, m.StatusErr)
	assert.Contains(t, m.Status, "load audio asset")

	_, cmd := m.Update(ServiceClosedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_WindowSize(t *testing.T) {
	m, _, _ := newTestModel()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	result := next.(Model)
	assert.Equal(t, 120, result.Width)
	assert.Equal(t, 40, result.Height)
}

func TestView(t *testing.T) {
	m, _, _ := newTestModel()
	m.Width = 100

	out := ansi.Strip(m.View())
	assert.Contains(t, out, "duet")
	assert.Contains(t, out, "nothing playing")
	assert.Contains(t, out, "play/pause")

	m, _ = press(t, m, "?")
	out = ansi.Strip(m.View())
	assert.Contains(t, out, "recombine")
	assert.Contains(t, out, "save playlist")
}

func TestWatchServiceEvents_NilSubscription(t *testing.T) {
	assert.Nil(t, WatchServiceEvents(nil))
}

func TestRestoreSession(t *testing.T) {
	svc := &fakeService{}
	store := state.NewMock()

	RestoreSession(svc, store, zerolog.Nop())
	assert.Empty(t, svc.calls, "no session saved")

	store.SaveSession(state.Session{Token: "2.84.1.2", Key: 2, Tempo: 84, AlternateVolume: 0.3})
	RestoreSession(svc, store, zerolog.Nop())
	assert.Equal(t, []string{"key 2", "tempo 84", "volume 0.3", "import 2.84.1.2"}, svc.calls)
}

func TestRestoreSession_SkipsFailures(t *testing.T) {
	svc := &fakeService{err: errors.New("rejected")}
	store := state.NewMock()
	store.SaveSession(state.Session{Key: 2, Tempo: 99})

	RestoreSession(svc, store, zerolog.Nop())
	assert.Equal(t, []string{"key 2", "tempo 99", "volume 0.0"}, svc.calls)
}

type fakeNotifier struct {
	sent []notify.Notification
}

func (f *fakeNotifier) Notify(n notify.Notification) (uint32, error) {
	f.sent = append(f.sent, n)
	return uint32(len(f.sent)) + 40, nil
}

func (f *fakeNotifier) Close(uint32) error { return nil }

// runCmd executes cmd and any batch it expands to, returning the non-nil messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func TestUpdate_UnitStartedNotifies(t *testing.T) {
	m, _, store := newTestModel()
	n := &fakeNotifier{}
	m.Notifier = n

	u := &mix.Unit{Key: 3, Tempo: 94, Tracks: [2]mix.Track{
		{Song: catalog.Song{ID: 1, Title: "Night Drive", Artist: "Kessel"}},
		{Song: catalog.Song{ID: 2, Title: "Low Tide", Artist: "Mira Vale"}},
	}}
	next, cmd := m.Update(UnitStartedMsg{Unit: u})
	m = next.(Model)

	msgs := runCmd(cmd)
	require.Len(t, n.sent, 1)
	assert.Equal(t, uint32(0), n.sent[0].ReplacesID)
	require.Contains(t, msgs, tea.Msg(NotifiedMsg{ID: 41}))

	next, _ = m.Update(NotifiedMsg{ID: 41})
	m = next.(Model)
	runCmd(NotifyUnitCmd(m.Notifier, u, m.notifyID))
	assert.Equal(t, uint32(41), n.sent[1].ReplacesID)

	sess, _ := store.GetSession()
	assert.NotNil(t, sess)
}

func TestNotifyUnitCmd_Disabled(t *testing.T) {
	assert.Nil(t, NotifyUnitCmd(nil, &mix.Unit{}, 0))
	assert.Nil(t, NotifyUnitCmd(&fakeNotifier{}, nil, 0))
}

func TestUpdate_StderrLine(t *testing.T) {
	m, _, _ := newTestModel()
	lines := make(chan string, 1)
	m.Stderr = lines

	next, cmd := m.Update(StderrMsg{Line: "ALSA lib pcm.c: underrun"})
	m = next.(Model)
	assert.True(t, m.StatusErr)
	assert.Equal(t, "ALSA lib pcm.c: underrun", m.Status)

	lines <- "again"
	require.NotNil(t, cmd)
	assert.Equal(t, StderrMsg{Line: "again"}, cmd())

	close(lines)
	assert.Nil(t, WatchStderr(lines)())
	assert.Nil(t, WatchStderr(nil))
}
