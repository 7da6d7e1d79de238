// Package app is the terminal interface of the mixer: a bubbletea model bound to the
// playback service.
package app

import (
	"time"

	"github.com/llehouerou/duet/internal/playback"
)

// TickMsg refreshes the progress bar between scheduler events.
type TickMsg time.Time

// SnapshotMsg carries a scheduler state change.
type SnapshotMsg playback.Snapshot

// UnitStartedMsg is sent when a unit becomes audible.
type UnitStartedMsg playback.UnitEvent

// NotifiedMsg carries the id of the desktop notification shown for a unit.
type NotifiedMsg struct {
	ID uint32
}

// StderrMsg is a line native audio code wrote to stderr.
type StderrMsg struct {
	Line string
}

// ServiceErrorMsg is sent when the scheduler reports a failure it recovered from.
type ServiceErrorMsg playback.ErrorEvent

// ServiceClosedMsg is sent once the subscription is closed.
type ServiceClosedMsg struct{}

// PlaylistSavedMsg reports a playlist stored under Name.
type PlaylistSavedMsg struct {
	Name string
}

// PlaylistLoadedMsg reports a saved playlist queued for playback.
type PlaylistLoadedMsg struct {
	Name  string
	Units int
}

// ActionErrorMsg reports a failed user action.
type ActionErrorMsg struct {
	Text string
}
