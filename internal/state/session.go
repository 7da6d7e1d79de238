package state

import (
	"database/sql"
	"errors"
	"time"
)

// Session is what is restored on the next start: the playlist token and the targets.
type Session struct {
	Token           string
	Key             int
	Tempo           int
	AlternateVolume float64
	SavedAt         time.Time
}

func getSession(db *sql.DB) (*Session, error) {
	var s Session
	var savedAt int64
	row := db.QueryRow(`
		SELECT token, song_key, tempo, alternate_volume, saved_at
		FROM session WHERE id = 1
	`)
	err := row.Scan(&s.Token, &s.Key, &s.Tempo, &s.AlternateVolume, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no session saved yet
	}
	if err != nil {
		return nil, err
	}
	s.SavedAt = time.Unix(savedAt, 0)
	return &s, nil
}

func saveSession(db *sql.DB, s Session) error {
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now()
	}
	_, err := db.Exec(`
		INSERT INTO session (id, token, song_key, tempo, alternate_volume, saved_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			song_key = excluded.song_key,
			tempo = excluded.tempo,
			alternate_volume = excluded.alternate_volume,
			saved_at = excluded.saved_at
	`, s.Token, s.Key, s.Tempo, s.AlternateVolume, s.SavedAt.Unix())
	return err
}
