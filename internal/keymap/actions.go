// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Transport
	ActionPlayPause Action = "play_pause"
	ActionStop      Action = "stop"
	ActionNextUnit  Action = "next_unit"
	ActionPrevUnit  Action = "prev_unit"

	// Targets
	ActionKeyUp     Action = "key_up"
	ActionKeyDown   Action = "key_down"
	ActionTempoUp   Action = "tempo_up"
	ActionTempoDown Action = "tempo_down"

	// Hidden-track modes
	ActionToggleAlternate Action = "toggle_alternate"
	ActionToggleRecombine Action = "toggle_recombine"
	ActionVolumeUp        Action = "alternate_volume_up"
	ActionVolumeDown      Action = "alternate_volume_down"

	// Playlist
	ActionExportPlaylist Action = "export_playlist"
	ActionSavePlaylist   Action = "save_playlist"
	ActionLoadPlaylist   Action = "load_playlist"
)
