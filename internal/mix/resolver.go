package mix

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/llehouerou/duet/internal/catalog"
	"github.com/llehouerou/duet/internal/config"
)

// Resolver maps songs to asset locations: {base}/{path}/{name}.{ext}.
type Resolver struct {
	base      string
	ext       string
	introName string
	mainName  string
}

// NewResolver creates a resolver. Format "auto" picks mp3 for http(s) bases and flac
// for local ones.
func NewResolver(cfg config.AssetsConfig) *Resolver {
	ext := cfg.Format
	if ext != "mp3" && ext != "flac" {
		ext = "flac"
		if IsRemote(cfg.BaseURL) {
			ext = "mp3"
		}
	}
	return &Resolver{
		base:      strings.TrimSuffix(cfg.BaseURL, "/"),
		ext:       ext,
		introName: cfg.IntroName,
		mainName:  cfg.MainName,
	}
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Ext returns the asset file extension.
func (r *Resolver) Ext() string { return r.ext }

// Resolve returns the intro and main asset locations for song.
func (r *Resolver) Resolve(song catalog.Song) (intro, main string) {
	return r.location(song.Path, r.introName), r.location(song.Path, r.mainName)
}

func (r *Resolver) location(dir, name string) string {
	file := name + "." + r.ext
	if IsRemote(r.base) {
		u, err := url.JoinPath(r.base, strings.Trim(dir, "/"), file)
		if err == nil {
			return u
		}
		return r.base + "/" + strings.Trim(dir, "/") + "/" + file
	}
	return filepath.Join(r.base, dir, file)
}

// Track binds song to its resolved assets.
func (r *Resolver) Track(song catalog.Song, timing Timing) Track {
	intro, main := r.Resolve(song)
	return Track{
		Song:          song,
		Key:           song.Key,
		Tempo:         song.Tempo,
		IntroURL:      intro,
		MainURL:       main,
		IntroDuration: timing.Intro(song.Tempo),
		MainDuration:  timing.Main(song.Tempo),
	}
}
