package catalog

import (
	"fmt"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Record is the on-disk form of a song in a library file.
//
//	[[songs]]
//	id = 12
//	title = "Night Drive"
//	artist = "Kessel"
//	key = 4
//	tempo = 94
//	path = "kessel/night-drive"
type Record struct {
	ID     int    `koanf:"id"`
	Title  string `koanf:"title"`
	Artist string `koanf:"artist"`
	Key    int    `koanf:"key"`
	Tempo  int    `koanf:"tempo"`
	Path   string `koanf:"path"`
}

type libraryFile struct {
	Songs []Record `koanf:"songs"`
}

// Song converts the record.
func (r Record) Song() Song {
	return Song(r)
}

// ReadFile parses a TOML library file without validating it.
func ReadFile(path string) ([]Record, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("read library %s: %w", path, err)
	}

	var lf libraryFile
	if err := k.Unmarshal("", &lf); err != nil {
		return nil, fmt.Errorf("decode library %s: %w", path, err)
	}
	return lf.Songs, nil
}

// LoadFile reads and validates a TOML library file.
func LoadFile(path string, allowedTempos []int) (*Library, error) {
	records, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	songs := make([]Song, len(records))
	for i, r := range records {
		songs[i] = r.Song()
	}
	return New(songs, allowedTempos)
}
