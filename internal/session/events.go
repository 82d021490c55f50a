package session

// EventKind tags an Event.
type EventKind int

const (
	TurnAppended EventKind = iota
	StateChanged
	DocumentBound
	DraftChanged
)

func (k EventKind) String() string {
	switch k {
	case TurnAppended:
		return "turn_appended"
	case StateChanged:
		return "state_changed"
	case DocumentBound:
		return "document_bound"
	default:
		return "draft_changed"
	}
}

// Event is a state-changed notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind     EventKind
	Turn     *Turn
	State    State
	Document string
}

// Subscribe registers fn for every subsequent event. Events are delivered
// synchronously, after the change is visible, and never while the session
// lock is held, so fn may call back into the session.
func (s *Session) Subscribe(fn func(Event)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Session) emit(events ...Event) {
	s.mu.Lock()
	listeners := make([]func(Event), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, e := range events {
		for _, fn := range listeners {
			fn(e)
		}
	}
}
