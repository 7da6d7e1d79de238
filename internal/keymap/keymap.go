package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding maps keys to an action within a help context.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "mix", "playlist"
}

// Bindings is the full key map.
var Bindings = []Binding{
	{ActionQuit, []string{"q", "ctrl+c"}, "quit", "global"},
	{ActionHelp, []string{"?"}, "help", "global"},

	{ActionPlayPause, []string{" "}, "play/pause", "playback"},
	{ActionStop, []string{"s"}, "stop", "playback"},
	{ActionNextUnit, []string{"n", "pgdown"}, "next", "playback"},
	{ActionPrevUnit, []string{"p", "pgup"}, "previous", "playback"},

	{ActionKeyUp, []string{"k", "up"}, "key +1", "mix"},
	{ActionKeyDown, []string{"j", "down"}, "key -1", "mix"},
	{ActionTempoUp, []string{"l", "right"}, "faster", "mix"},
	{ActionTempoDown, []string{"h", "left"}, "slower", "mix"},
	{ActionToggleAlternate, []string{"a"}, "alternate", "mix"},
	{ActionToggleRecombine, []string{"r"}, "recombine", "mix"},
	{ActionVolumeUp, []string{"+", "="}, "hidden vol +", "mix"},
	{ActionVolumeDown, []string{"-"}, "hidden vol -", "mix"},

	{ActionExportPlaylist, []string{"e"}, "export token", "playlist"},
	{ActionSavePlaylist, []string{"ctrl+s"}, "save playlist", "playlist"},
	{ActionLoadPlaylist, []string{"ctrl+o"}, "load last saved", "playlist"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Help converts bindings into bubbles key bindings for the help view.
func Help(bindings []Binding) []key.Binding {
	out := make([]key.Binding, len(bindings))
	for i, b := range bindings {
		out[i] = key.NewBinding(
			key.WithKeys(b.Keys...),
			key.WithHelp(displayKey(b.Keys[0]), b.Description),
		)
	}
	return out
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
