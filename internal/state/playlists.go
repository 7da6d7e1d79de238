package state

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrEmptyName        = errors.New("playlist name is empty")
)

// SavedPlaylist is a named playlist token.
type SavedPlaylist struct {
	Name      string
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListPlaylists returns the saved playlists, most recently saved first.
func (m *Manager) ListPlaylists() ([]SavedPlaylist, error) {
	return listPlaylists(m.db)
}

// GetPlaylist returns the playlist saved under name.
func (m *Manager) GetPlaylist(name string) (*SavedPlaylist, error) {
	return getPlaylist(m.db, name)
}

// SavePlaylist stores token under name, replacing any playlist of that name.
func (m *Manager) SavePlaylist(name, token string) error {
	return savePlaylist(m.db, name, token, time.Now())
}

// DeletePlaylist removes the playlist saved under name.
func (m *Manager) DeletePlaylist(name string) error {
	res, err := m.db.Exec(`DELETE FROM playlists WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

func listPlaylists(db *sql.DB) ([]SavedPlaylist, error) {
	rows, err := db.Query(`
		SELECT name, token, created_at, updated_at
		FROM playlists
		ORDER BY updated_at DESC, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []SavedPlaylist
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

func getPlaylist(db *sql.DB, name string) (*SavedPlaylist, error) {
	row := db.QueryRow(`
		SELECT name, token, created_at, updated_at
		FROM playlists
		WHERE name = ?
	`, name)
	p, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func savePlaylist(db *sql.DB, name, token string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	_, err := db.Exec(`
		INSERT INTO playlists (name, token, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			token = excluded.token,
			updated_at = excluded.updated_at
	`, name, token, now.Unix(), now.Unix())
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlaylist(s scanner) (SavedPlaylist, error) {
	var p SavedPlaylist
	var created, updated int64
	if err := s.Scan(&p.Name, &p.Token, &created, &updated); err != nil {
		return p, err
	}
	p.CreatedAt = time.Unix(created, 0)
	p.UpdatedAt = time.Unix(updated, 0)
	return p, nil
}
