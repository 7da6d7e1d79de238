// Package icons holds the glyphs of the status line in three styles.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Play      string
	Pause     string
	Stop      string
	Loading   string
	Key       string
	Tempo     string
	Alternate string
	Recombine string
	Volume    string
	Playlist  string
}

var (
	nerdIcons = Icons{
		Play:      "\uf04b",     // nf-fa-play
		Pause:     "\uf04c",     // nf-fa-pause
		Stop:      "\uf04d",     // nf-fa-stop
		Loading:   "\U000f051f", // nf-md-timer_sand
		Key:       "\U000f0f70", // nf-md-music_clef_treble
		Tempo:     "\U000f07da", // nf-md-metronome
		Alternate: "\U000f0456", // nf-md-repeat
		Recombine: "\U000f057e", // nf-md-volume_high
		Volume:    "\uf028",     // nf-fa-volume_up
		Playlist:  "\U000f0cb8", // nf-md-playlist_music
	}

	unicodeIcons = Icons{
		Play:      "▶",
		Pause:     "⏸",
		Stop:      "■",
		Loading:   "⧗",
		Key:       "♯",
		Tempo:     "♩",
		Alternate: "⇄",
		Recombine: "≋",
		Volume:    "🔊",
		Playlist:  "📋",
	}

	noneIcons = Icons{
		Play:      ">",
		Pause:     "||",
		Stop:      "[]",
		Loading:   "...",
		Key:       "key",
		Tempo:     "bpm",
		Alternate: "[A]",
		Recombine: "[R]",
		Volume:    "vol",
		Playlist:  "",
	}

	// current holds the active icon set
	current = unicodeIcons
)

// Init selects the icon style. Unknown styles fall back to unicode.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleNone:
		current = noneIcons
	default:
		current = unicodeIcons
	}
}

// Current returns the active icon set.
func Current() Icons {
	return current
}

// Labeled prefixes label with icon, or returns label alone when the style has no
// glyph for it.
func Labeled(icon, label string) string {
	if icon == "" {
		return label
	}
	return icon + " " + label
}
