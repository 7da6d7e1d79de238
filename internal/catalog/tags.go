package catalog

import (
	"os"

	"github.com/dhowden/tag"
)

// FillFromTags completes a record's missing title or artist from the tags of a local
// audio file. Records that already carry both are returned unchanged.
func FillFromTags(r Record, audioPath string) (Record, error) {
	if r.Title != "" && r.Artist != "" {
		return r, nil
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return r, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return r, err
	}

	if r.Title == "" {
		r.Title = m.Title()
	}
	if r.Artist == "" {
		r.Artist = m.Artist()
		if r.Artist == "" {
			r.Artist = m.AlbumArtist()
		}
	}
	return r, nil
}
