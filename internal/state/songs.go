package state

import (
	"context"
	"database/sql"

	"github.com/llehouerou/duet/internal/catalog"
	dbutil "github.com/llehouerou/duet/internal/db"
)

// Songs returns the stored catalog ordered by id.
func (m *Manager) Songs() ([]catalog.Song, error) {
	return getSongs(m.db)
}

// ReplaceSongs swaps the stored catalog for songs in one transaction.
func (m *Manager) ReplaceSongs(songs []catalog.Song) error {
	return replaceSongs(m.db, songs)
}

func getSongs(db *sql.DB) ([]catalog.Song, error) {
	rows, err := db.Query(`
		SELECT id, title, artist, song_key, tempo, path
		FROM songs
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []catalog.Song
	for rows.Next() {
		var s catalog.Song
		if err := rows.Scan(&s.ID, &s.Title, &s.Artist, &s.Key, &s.Tempo, &s.Path); err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

func replaceSongs(db *sql.DB, songs []catalog.Song) error {
	ctx := context.Background()
	return dbutil.WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM songs`); err != nil {
			return err
		}
		return dbutil.ExecEach(ctx, tx, `
			INSERT INTO songs (id, title, artist, song_key, tempo, path)
			VALUES (?, ?, ?, ?, ?, ?)
		`, len(songs), func(i int) []any {
			s := songs[i]
			return []any{s.ID, s.Title, s.Artist, s.Key, s.Tempo, s.Path}
		})
	})
}
