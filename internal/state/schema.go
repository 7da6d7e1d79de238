package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS songs (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			song_key INTEGER NOT NULL CHECK (song_key BETWEEN 1 AND 10),
			tempo INTEGER NOT NULL CHECK (tempo > 0),
			path TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_songs_tempo ON songs(tempo);

		CREATE TABLE IF NOT EXISTS playlists (
			name TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_playlists_updated ON playlists(updated_at DESC);

		CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			token TEXT NOT NULL DEFAULT '',
			song_key INTEGER NOT NULL,
			tempo INTEGER NOT NULL,
			alternate_volume REAL NOT NULL DEFAULT 0.8,
			saved_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
