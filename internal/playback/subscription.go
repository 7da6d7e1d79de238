package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	StateChanged <-chan Snapshot
	UnitStarted  <-chan UnitEvent
	MainStarted  <-chan UnitEvent
	UnitEnded    <-chan UnitEvent
	Error        <-chan ErrorEvent
	Done         <-chan struct{}

	// Internal write channels
	stateCh   chan Snapshot
	startedCh chan UnitEvent
	mainCh    chan UnitEvent
	endedCh   chan UnitEvent
	errorCh   chan ErrorEvent
	doneCh    chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:   make(chan Snapshot, eventBufferSize),
		startedCh: make(chan UnitEvent, eventBufferSize),
		mainCh:    make(chan UnitEvent, eventBufferSize),
		endedCh:   make(chan UnitEvent, eventBufferSize),
		errorCh:   make(chan ErrorEvent, eventBufferSize),
		doneCh:    make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.UnitStarted = s.startedCh
	s.MainStarted = s.mainCh
	s.UnitEnded = s.endedCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendState sends a snapshot (non-blocking).
func (s *Subscription) sendState(e Snapshot) {
	select {
	case s.stateCh <- e:
	default:
		// Drop if buffer full
	}
}

func (s *Subscription) sendStarted(e UnitEvent) {
	select {
	case s.startedCh <- e:
	default:
	}
}

func (s *Subscription) sendMain(e UnitEvent) {
	select {
	case s.mainCh <- e:
	default:
	}
}

func (s *Subscription) sendEnded(e UnitEvent) {
	select {
	case s.endedCh <- e:
	default:
	}
}

// sendError sends an error event (non-blocking).
func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
