// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Library operations
	OpLibraryLoad   Op = "load library"
	OpLibraryImport Op = "import library"
	OpLibraryUpdate Op = "update songs"

	// Asset operations
	OpAssetLoad   Op = "load audio asset"
	OpAssetDecode Op = "decode audio asset"

	// Selection operations
	OpUnitAssemble Op = "assemble next unit"
	OpUnitSchedule Op = "schedule unit"

	// Playback operations
	OpPlaybackStart    Op = "start playback"
	OpPlaybackSkip     Op = "skip unit"
	OpPlaybackPrevious Op = "replay previous unit"
	OpPlaybackKey      Op = "change key"
	OpPlaybackTempo    Op = "change tempo"

	// Mode operations
	OpModeAlternate Op = "toggle alternate mode"
	OpModeRecombine Op = "toggle recombine mode"

	// Playlist operations
	OpPlaylistDecode Op = "decode playlist"
	OpPlaylistSave   Op = "save playlist"
	OpPlaylistLoad   Op = "load playlist"

	// Session operations
	OpSessionSave    Op = "save session"
	OpSessionRestore Op = "restore session"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
