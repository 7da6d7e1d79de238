package player

// State is the engine lifecycle.
//
//	┌──────────┐   suspend   ┌───────────┐
//	│ Running  │ ──────────▶ │ Suspended │
//	└──────────┘ ◀────────── └───────────┘
//	     │          resume         │
//	     │ close                   │ close
//	     ▼                         ▼
//	┌──────────────────────────────────┐
//	│              Closed              │
//	└──────────────────────────────────┘
//
// The audio clock only advances while Running.
type State int

const (
	Running State = iota
	Suspended
	Closed
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Suspended:
		return "Suspended"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// CanSuspend returns true if the state allows suspending.
func (s State) CanSuspend() bool {
	return s == Running
}

// CanResume returns true if the state allows resuming.
func (s State) CanResume() bool {
	return s == Suspended
}
