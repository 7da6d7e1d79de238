//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/music/library/albums",
			expected: filepath.Join(home, "music", "library", "albums"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/local/music",
			expected: "/usr/local/music",
		},
		{
			name:     "relative path unchanged",
			input:    "music/albums",
			expected: "music/albums",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
		{
			name:     "tilde with slash",
			input:    "~/",
			expected: filepath.Join(home, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	// Should have at least one path
	if len(paths) == 0 {
		t.Error("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	// If we have home dir, first path should be ~/.config/duet/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "duet", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFrom_LastFileWins(t *testing.T) {
	dir := t.TempDir()
	first := writeConfig(t, dir, "a.toml", `
[selector]
shortlist_size = 5
reset_threshold = 2

[assets]
base_url = "https://cdn.example.com/mix/"
`)
	second := writeConfig(t, dir, "b.toml", `
[selector]
shortlist_size = 12
`)

	cfg, err := LoadFrom(first, second, filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	sel := cfg.GetSelectorConfig()
	if sel.ShortlistSize != 12 {
		t.Errorf("ShortlistSize = %d, want 12", sel.ShortlistSize)
	}
	if sel.ResetThreshold != 2 {
		t.Errorf("ResetThreshold = %d, want 2", sel.ResetThreshold)
	}
	if cfg.Assets.BaseURL != "https://cdn.example.com/mix" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.Assets.BaseURL)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.toml", "[selector\nshortlist_size = ")
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() expected error for invalid TOML")
	}
}

func TestLoadFrom_ParsesAllSections(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "full.toml", `
[library]
tempos = [102, 84, 84]

[mix]
intro_beats = 8
main_beats = 32
hidden = false

[playback]
look_ahead = 2
start_tempo = 102
start_key = 7

[modes]
alternate_beats = 4
alternate_volume = 0.5

[random]
source = "remote"
url = "http://rng.local/"
seed = 42
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	lib := cfg.GetLibraryConfig()
	if len(lib.Tempos) != 2 || lib.Tempos[0] != 84 || lib.Tempos[1] != 102 {
		t.Errorf("Tempos = %v, want [84 102]", lib.Tempos)
	}

	mix := cfg.GetMixConfig()
	if mix.IntroBeats != 8 || mix.MainBeats != 32 || mix.HiddenEnabled() {
		t.Errorf("mix = %+v, hidden = %v", mix, mix.HiddenEnabled())
	}

	pb := cfg.GetPlaybackConfig()
	if pb.LookAhead != 2 || pb.StartTempo != 102 || pb.StartKey != 7 {
		t.Errorf("playback = %+v", pb)
	}

	modes := cfg.GetModesConfig()
	if modes.AlternateBeats != 4 || *modes.AlternateVolume != 0.5 {
		t.Errorf("modes = %+v", modes)
	}

	if !cfg.HasRemoteRandom() {
		t.Error("HasRemoteRandom() = false, want true")
	}
	rnd := cfg.GetRandomConfig()
	if rnd.URL != "http://rng.local" || rnd.Seed != 42 {
		t.Errorf("random = %+v", rnd)
	}
}

func TestGetSelectorConfig_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		input    SelectorConfig
		expected SelectorConfig
	}{
		{
			name:  "zero values get defaults",
			input: SelectorConfig{},
			expected: SelectorConfig{
				ShortlistSize: 20, ResetThreshold: 4, RecentSize: 8, LensPolicy: "per_round",
			},
		},
		{
			name:  "valid values preserved",
			input: SelectorConfig{ShortlistSize: 3, ResetThreshold: 1, RecentSize: 2, LensPolicy: "per_call"},
			expected: SelectorConfig{
				ShortlistSize: 3, ResetThreshold: 1, RecentSize: 2, LensPolicy: "per_call",
			},
		},
		{
			name:  "unknown policy falls back",
			input: SelectorConfig{ShortlistSize: -1, LensPolicy: "sometimes"},
			expected: SelectorConfig{
				ShortlistSize: 20, ResetThreshold: 4, RecentSize: 8, LensPolicy: "per_round",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Selector: tt.input}
			if got := cfg.GetSelectorConfig(); got != tt.expected {
				t.Errorf("GetSelectorConfig() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestGetAssetsConfig_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		input    AssetsConfig
		expected AssetsConfig
	}{
		{
			name:  "zero values get defaults",
			input: AssetsConfig{},
			expected: AssetsConfig{
				Format: "auto", IntroName: "intro", MainName: "main",
				CacheUnits: 4, Retries: 3, BackoffMS: 200,
			},
		},
		{
			name:  "out of range clamped",
			input: AssetsConfig{Format: "ogg", CacheUnits: 100, Retries: 50},
			expected: AssetsConfig{
				Format: "auto", IntroName: "intro", MainName: "main",
				CacheUnits: 4, Retries: 3, BackoffMS: 200,
			},
		},
		{
			name:  "valid values preserved",
			input: AssetsConfig{BaseURL: "/srv/mix", Format: "flac", IntroName: "lead", MainName: "body", CacheUnits: 2, Retries: 1, BackoffMS: 50},
			expected: AssetsConfig{
				BaseURL: "/srv/mix", Format: "flac", IntroName: "lead", MainName: "body",
				CacheUnits: 2, Retries: 1, BackoffMS: 50,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Assets: tt.input}
			if got := cfg.GetAssetsConfig(); got != tt.expected {
				t.Errorf("GetAssetsConfig() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestGetPlaybackConfig_Defaults(t *testing.T) {
	cfg := &Config{Playback: PlaybackConfig{StartTempo: 99, StartKey: 11, LookAhead: 9, HistorySize: 1}}
	got := cfg.GetPlaybackConfig()

	if got.StartMarginMS != 100 {
		t.Errorf("StartMarginMS = %d, want 100", got.StartMarginMS)
	}
	if got.LookAhead != 1 {
		t.Errorf("LookAhead = %d, want 1", got.LookAhead)
	}
	if got.HistorySize != 8 {
		t.Errorf("HistorySize = %d, want 8", got.HistorySize)
	}
	if got.RetryDelayMS != 2000 {
		t.Errorf("RetryDelayMS = %d, want 2000", got.RetryDelayMS)
	}
	if got.StartKey != 1 {
		t.Errorf("StartKey = %d, want 1", got.StartKey)
	}
	if got.StartTempo != 84 {
		t.Errorf("StartTempo = %d, want first allowed tempo 84", got.StartTempo)
	}
}

func TestGetModesConfig_Defaults(t *testing.T) {
	tooLoud := 1.5
	cfg := &Config{Modes: ModesConfig{AlternateVolume: &tooLoud}}
	got := cfg.GetModesConfig()

	if got.AlternateBeats != 16 {
		t.Errorf("AlternateBeats = %d, want 16", got.AlternateBeats)
	}
	if *got.AlternateVolume != 0.8 {
		t.Errorf("AlternateVolume = %v, want 0.8", *got.AlternateVolume)
	}
}

func TestGetRandomConfig_RemoteNeedsURL(t *testing.T) {
	cfg := &Config{Random: RandomConfig{Source: "remote"}}
	if cfg.HasRemoteRandom() {
		t.Error("HasRemoteRandom() = true without URL")
	}
	if got := cfg.GetRandomConfig().Source; got != "pcg" {
		t.Errorf("Source = %q, want pcg", got)
	}
}

func TestGetLogConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetLogConfig().Level; got != "info" {
		t.Errorf("Level = %q, want info", got)
	}
}

func TestGetUIConfig_Defaults(t *testing.T) {
	tests := []struct {
		icons string
		want  string
	}{
		{"", "unicode"},
		{"nerd", "nerd"},
		{"none", "none"},
		{"emoji", "unicode"},
	}
	for _, tt := range tests {
		t.Run(tt.icons, func(t *testing.T) {
			cfg := &Config{UI: UIConfig{Icons: tt.icons}}
			if got := cfg.GetUIConfig().Icons; got != tt.want {
				t.Errorf("Icons = %q, want %q", got, tt.want)
			}
		})
	}
}
