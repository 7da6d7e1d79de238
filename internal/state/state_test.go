package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/clock"
)

// setupManager opens a fresh database in a temp dir driven by a fake clock.
func setupManager(t *testing.T) (*Manager, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Unix(1_700_000_000, 0))
	m, err := OpenPath(filepath.Join(t.TempDir(), "nested", dbFileName), fake)
	require.NoError(t, err)
	return m, fake
}

func TestOpenPath_InitsSchemaTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), dbFileName)
	m, err := OpenPath(path, clock.Real())
	require.NoError(t, err)
	require.NoError(t, m.Close())

	m, err = OpenPath(path, clock.Real())
	require.NoError(t, err)
	defer m.Close()

	var version int
	require.NoError(t, m.DB().QueryRow(`SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestSongs_Empty(t *testing.T) {
	m, _ := setupManager(t)
	defer m.Close()

	songs, err := m.Songs()
	require.NoError(t, err)
	assert.Empty(t, songs)
}

func TestReplaceSongs(t *testing.T) {
	m, _ := setupManager(t)
	defer m.Close()

	first := []catalog.Song{
		{ID: 3, Title: "Gamma", Artist: "C", Key: 3, Tempo: 94, Path: "c/gamma"},
		{ID: 1, Title: "Alpha", Artist: "A", Key: 1, Tempo: 84, Path: "a/alpha"},
	}
	require.NoError(t, m.ReplaceSongs(first))

	songs, err := m.Songs()
	require.NoError(t, err)
	assert.Equal(t, []catalog.Song{first[1], first[0]}, songs)

	second := []catalog.Song{{ID: 7, Title: "Eta", Artist: "E", Key: 10, Tempo: 102, Path: "e/eta"}}
	require.NoError(t, m.ReplaceSongs(second))

	songs, err = m.Songs()
	require.NoError(t, err)
	assert.Equal(t, second, songs)
}

func TestReplaceSongs_RollsBackOnError(t *testing.T) {
	m, _ := setupManager(t)
	defer m.Close()

	kept := []catalog.Song{{ID: 1, Title: "Alpha", Artist: "A", Key: 1, Tempo: 84, Path: "a"}}
	require.NoError(t, m.ReplaceSongs(kept))

	bad := []catalog.Song{
		{ID: 2, Title: "Beta", Artist: "B", Key: 2, Tempo: 84, Path: "b"},
		{ID: 2, Title: "Beta again", Artist: "B", Key: 2, Tempo: 84, Path: "b"},
	}
	require.Error(t, m.ReplaceSongs(bad))

	songs, err := m.Songs()
	require.NoError(t, err)
	assert.Equal(t, kept, songs)
}

func TestPlaylists(t *testing.T) {
	m, _ := setupManager(t)
	defer m.Close()

	list, err := m.ListPlaylists()
	require.NoError(t, err)
	assert.Empty(t, list)

	base := time.Unix(1_700_000_000, 0)
	require.NoError(t, savePlaylist(m.db, "morning", "1.84.3.4", base))
	require.NoError(t, savePlaylist(m.db, "night", "2.94.5.6", base.Add(time.Minute)))
	require.NoError(t, savePlaylist(m.db, " morning ", "3.102.7.8", base.Add(2*time.Minute)))

	list, err = m.ListPlaylists()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "morning", list[0].Name)
	assert.Equal(t, "3.102.7.8", list[0].Token)
	assert.Equal(t, base, list[0].CreatedAt)
	assert.Equal(t, base.Add(2*time.Minute), list[0].UpdatedAt)
	assert.Equal(t, "night", list[1].Name)

	p, err := m.GetPlaylist("night")
	require.NoError(t, err)
	assert.Equal(t, "2.94.5.6", p.Token)

	require.NoError(t, m.DeletePlaylist("night"))
	_, err = m.GetPlaylist("night")
	require.ErrorIs(t, err, ErrPlaylistNotFound)
	require.ErrorIs(t, m.DeletePlaylist("night"), ErrPlaylistNotFound)
}

func TestSavePlaylist_EmptyName(t *testing.T) {
	m, _ := setupManager(t)
	defer m.Close()

	require.ErrorIs(t, m.SavePlaylist("  ", "1.84.3.4"), ErrEmptyName)
}

func TestSession_Empty(t *testing.T) {
	m, _ := setupManager(t)
	defer m.Close()

	s, err := m.GetSession()
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSaveSession_Debounced(t *testing.T) {
	m, fake := setupManager(t)
	defer m.Close()

	m.SaveSession(Session{Token: "a", Key: 1, Tempo: 84, AlternateVolume: 0.5})
	fake.Advance(saveDebounce / 2)
	m.SaveSession(Session{Token: "b", Key: 2, Tempo: 94, AlternateVolume: 0.6})

	fake.Advance(saveDebounce / 2)
	s, err := m.GetSession()
	require.NoError(t, err)
	assert.Nil(t, s, "nothing written before the quiet period ends")

	fake.Advance(saveDebounce / 2)
	s, err = m.GetSession()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "b", s.Token)
	assert.Equal(t, 2, s.Key)
	assert.Equal(t, 94, s.Tempo)
	assert.InDelta(t, 0.6, s.AlternateVolume, 1e-9)
	assert.Zero(t, fake.Pending())
}

func TestClose_FlushesPendingSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), dbFileName)
	fake := clock.NewFake(time.Unix(0, 0))
	m, err := OpenPath(path, fake)
	require.NoError(t, err)

	m.SaveSession(Session{Token: "t", Key: 5, Tempo: 102, SavedAt: time.Unix(42, 0)})
	require.NoError(t, m.Close())
	assert.Zero(t, fake.Pending())

	m, err = OpenPath(path, fake)
	require.NoError(t, err)
	defer m.Close()

	s, err := m.GetSession()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "t", s.Token)
	assert.Equal(t, 5, s.Key)
	assert.Equal(t, time.Unix(42, 0), s.SavedAt)
}

func TestMock(t *testing.T) {
	m := NewMock()

	require.NoError(t, m.SavePlaylist("a", "1"))
	require.NoError(t, m.SavePlaylist("a", "2"))
	p, err := m.GetPlaylist("a")
	require.NoError(t, err)
	assert.Equal(t, "2", p.Token)
	require.NoError(t, m.DeletePlaylist("a"))
	require.ErrorIs(t, m.DeletePlaylist("a"), ErrPlaylistNotFound)

	m.SaveSession(Session{Key: 3})
	s, _ := m.GetSession()
	assert.Equal(t, 3, s.Key)

	require.NoError(t, m.Close())
	assert.True(t, m.IsClosed())
}
