package playback

// State is the scheduler state.
//
//	         play
//	┌──────┐ ──────▶ ┌─────────┐  pause  ┌────────┐
//	│ Idle │         │ Playing │ ──────▶ │ Paused │
//	└──────┘ ◀────── └─────────┘ ◀────── └────────┘
//	   ▲      stop                 play      │
//	   └─────────────────────────────────────┘
//	                    stop
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}
