package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Library     LibraryConfig     `koanf:"library"`
	Assets      AssetsConfig      `koanf:"assets"`
	Mix         MixConfig         `koanf:"mix"`
	Selector    SelectorConfig    `koanf:"selector"`
	Progression ProgressionConfig `koanf:"progression"`
	Playback    PlaybackConfig    `koanf:"playback"`
	Modes       ModesConfig       `koanf:"modes"`
	Random      RandomConfig      `koanf:"random"`
	Log         LogConfig         `koanf:"log"`
	UI          UIConfig          `koanf:"ui"`
}

// LibraryConfig locates the song catalog.
type LibraryConfig struct {
	File   string `koanf:"file"`   // TOML library file imported on first run
	Tempos []int  `koanf:"tempos"` // allowed tempo set (default: 84, 94, 102)
}

// AssetsConfig controls where audio assets come from and how many stay decoded.
type AssetsConfig struct {
	BaseURL    string `koanf:"base_url"`    // http(s) URL or local directory
	Format     string `koanf:"format"`      // "auto", "mp3" or "flac" (default: auto)
	IntroName  string `koanf:"intro_name"`  // default: "intro"
	MainName   string `koanf:"main_name"`   // default: "main"
	CacheUnits int    `koanf:"cache_units"` // units kept decoded (1-16, default: 4)
	Retries    int    `koanf:"retries"`     // load attempts after the first (1-10, default: 3)
	BackoffMS  int    `koanf:"backoff_ms"`  // first retry delay, doubled per attempt (default: 200)
}

// MixConfig holds the musical grid of a unit.
type MixConfig struct {
	IntroBeats int   `koanf:"intro_beats"` // default: 16
	MainBeats  int   `koanf:"main_beats"`  // default: 64
	Hidden     *bool `koanf:"hidden"`      // pre-generate hidden tracks (default: true)
}

// SelectorConfig tunes candidate selection.
type SelectorConfig struct {
	ShortlistSize  int    `koanf:"shortlist_size"`  // top-K picked from (default: 20)
	ResetThreshold int    `koanf:"reset_threshold"` // unplayed count that starts a new wave (default: 4)
	RecentSize     int    `koanf:"recent_size"`     // recency list length (default: 8)
	LensPolicy     string `koanf:"lens_policy"`     // "per_round" or "per_call" (default: per_round)
}

// ProgressionConfig shapes the key/tempo table.
type ProgressionConfig struct {
	MinPerTempo int `koanf:"min_per_tempo"` // entries for the smallest tempo group (default: 4)
	Cycles      int `koanf:"cycles"`        // block repetitions (default: 64)
}

// PlaybackConfig tunes the scheduler.
type PlaybackConfig struct {
	StartMarginMS int `koanf:"start_margin_ms"` // default: 100
	LookAhead     int `koanf:"look_ahead"`      // units scheduled ahead (1-4, default: 1)
	HistorySize   int `koanf:"history_size"`    // units kept for skip back (default: 8)
	RetryDelayMS  int `koanf:"retry_delay_ms"`  // delay before retrying a failed next unit (default: 2000)
	StartKey      int `koanf:"start_key"`       // default: 1
	StartTempo    int `koanf:"start_tempo"`     // default: first allowed tempo
}

// ModesConfig tunes the mode controllers.
type ModesConfig struct {
	AlternateBeats  int      `koanf:"alternate_beats"`  // beats between switches (default: 16)
	AlternateVolume *float64 `koanf:"alternate_volume"` // 0-1 (default: 0.8)
}

// RandomConfig selects the randomness source.
type RandomConfig struct {
	Source string `koanf:"source"` // "pcg" or "remote" (default: pcg)
	URL    string `koanf:"url"`    // remote service URL
	Seed   uint64 `koanf:"seed"`   // 0 seeds from the clock
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `koanf:"level"` // zerolog level name (default: "info")
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/duet/duet.log
}

// UIConfig tunes the terminal interface.
type UIConfig struct {
	Icons         string `koanf:"icons"`         // "nerd", "unicode" or "none" (default: unicode)
	Notifications bool   `koanf:"notifications"` // desktop notification per unit (default: false)
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom loads the given files in order; later files override earlier ones and
// missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Library.File = expandPath(cfg.Library.File)
	cfg.Log.File = expandPath(cfg.Log.File)
	if !isRemote(cfg.Assets.BaseURL) {
		cfg.Assets.BaseURL = expandPath(cfg.Assets.BaseURL)
	}
	cfg.Assets.BaseURL = strings.TrimSuffix(cfg.Assets.BaseURL, "/")
	cfg.Random.URL = strings.TrimSuffix(cfg.Random.URL, "/")

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/duet/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "duet", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func isRemote(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// HasRemoteRandom returns true if the remote randomness service is configured.
func (c *Config) HasRemoteRandom() bool {
	return c.Random.Source == "remote" && c.Random.URL != ""
}

// GetLibraryConfig returns the library configuration with defaults applied.
func (c *Config) GetLibraryConfig() LibraryConfig {
	cfg := c.Library
	if len(cfg.Tempos) == 0 {
		cfg.Tempos = []int{84, 94, 102}
	}
	cfg.Tempos = slices.Clone(cfg.Tempos)
	slices.Sort(cfg.Tempos)
	cfg.Tempos = slices.Compact(cfg.Tempos)
	return cfg
}

// GetAssetsConfig returns the assets configuration with defaults applied.
func (c *Config) GetAssetsConfig() AssetsConfig {
	cfg := c.Assets
	switch cfg.Format {
	case "mp3", "flac", "auto":
	default:
		cfg.Format = "auto"
	}
	if cfg.IntroName == "" {
		cfg.IntroName = "intro"
	}
	if cfg.MainName == "" {
		cfg.MainName = "main"
	}
	if cfg.CacheUnits <= 0 || cfg.CacheUnits > 16 {
		cfg.CacheUnits = 4
	}
	if cfg.Retries <= 0 || cfg.Retries > 10 {
		cfg.Retries = 3
	}
	if cfg.BackoffMS <= 0 {
		cfg.BackoffMS = 200
	}
	return cfg
}

// GetMixConfig returns the mix configuration with defaults applied.
func (c *Config) GetMixConfig() MixConfig {
	cfg := c.Mix
	if cfg.IntroBeats <= 0 {
		cfg.IntroBeats = 16
	}
	if cfg.MainBeats <= 0 {
		cfg.MainBeats = 64
	}
	if cfg.Hidden == nil {
		hidden := true
		cfg.Hidden = &hidden
	}
	return cfg
}

// HiddenEnabled reports whether units carry hidden tracks.
func (m MixConfig) HiddenEnabled() bool {
	return m.Hidden == nil || *m.Hidden
}

// GetSelectorConfig returns the selector configuration with defaults applied.
func (c *Config) GetSelectorConfig() SelectorConfig {
	cfg := c.Selector
	if cfg.ShortlistSize <= 0 {
		cfg.ShortlistSize = 20
	}
	if cfg.ResetThreshold <= 0 {
		cfg.ResetThreshold = 4
	}
	if cfg.RecentSize <= 0 {
		cfg.RecentSize = 8
	}
	if cfg.LensPolicy != "per_call" {
		cfg.LensPolicy = "per_round"
	}
	return cfg
}

// GetProgressionConfig returns the progression configuration with defaults applied.
func (c *Config) GetProgressionConfig() ProgressionConfig {
	cfg := c.Progression
	if cfg.MinPerTempo <= 0 {
		cfg.MinPerTempo = 4
	}
	if cfg.Cycles <= 0 {
		cfg.Cycles = 64
	}
	return cfg
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback
	if cfg.StartMarginMS <= 0 {
		cfg.StartMarginMS = 100
	}
	if cfg.LookAhead <= 0 || cfg.LookAhead > 4 {
		cfg.LookAhead = 1
	}
	if cfg.HistorySize < 2 {
		cfg.HistorySize = 8
	}
	if cfg.RetryDelayMS <= 0 {
		cfg.RetryDelayMS = 2000
	}
	if cfg.StartKey < 1 || cfg.StartKey > 10 {
		cfg.StartKey = 1
	}
	tempos := c.GetLibraryConfig().Tempos
	if !slices.Contains(tempos, cfg.StartTempo) {
		cfg.StartTempo = tempos[0]
	}
	return cfg
}

// GetModesConfig returns the modes configuration with defaults applied.
func (c *Config) GetModesConfig() ModesConfig {
	cfg := c.Modes
	if cfg.AlternateBeats <= 0 {
		cfg.AlternateBeats = 16
	}
	if cfg.AlternateVolume == nil || *cfg.AlternateVolume < 0 || *cfg.AlternateVolume > 1 {
		v := 0.8
		cfg.AlternateVolume = &v
	}
	return cfg
}

// GetRandomConfig returns the randomness configuration with defaults applied.
func (c *Config) GetRandomConfig() RandomConfig {
	cfg := c.Random
	if cfg.Source != "remote" || cfg.URL == "" {
		cfg.Source = "pcg"
	}
	return cfg
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// GetUIConfig returns the interface configuration with defaults applied.
func (c *Config) GetUIConfig() UIConfig {
	cfg := c.UI
	switch cfg.Icons {
	case "nerd", "unicode", "none":
	default:
		cfg.Icons = "unicode"
	}
	return cfg
}
