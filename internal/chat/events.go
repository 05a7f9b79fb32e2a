package chat

// EventType distinguishes the two kinds of session events pushed to
// subscribers.
type EventType string

const (
	EventMessage EventType = "message"
	EventState   EventType = "state"
)

// Event notifies a subscriber of a transcript append or a state change.
type Event struct {
	Type    EventType `json:"type"`
	Message *Message  `json:"message,omitempty"`
	State   *State    `json:"state,omitempty"`
}

// State is a read-only snapshot of the session's transient flags.
type State struct {
	IsOpen            bool   `json:"is_open"`
	IsLarge           bool   `json:"is_large"`
	IsTyping          bool   `json:"is_typing"`
	IsProcessing      bool   `json:"is_processing"`
	ShowEnquiryForm   bool   `json:"show_enquiry_form"`
	IsLoadingProducts bool   `json:"is_loading_products"`
	Language          string `json:"language"`
}

// notify delivers an event to every subscriber without blocking; a
// subscriber that cannot keep up misses events rather than stalling
// the session. Callers hold s.mu.
func (s *Session) notify(e Event) {
	for ch := range s.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

func (s *Session) notifyMessage(m Message) {
	s.notify(Event{Type: EventMessage, Message: &m})
}

func (s *Session) notifyState() {
	state := s.stateLocked()
	s.notify(Event{Type: EventState, State: &state})
}

// Subscribe registers an event channel and returns it with a cancel
// function. The channel is closed when the session is disposed or the
// cancel function runs.
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if s.disposed {
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
	}
	return ch, cancel
}
