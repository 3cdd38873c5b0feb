package sse

// EventKind discriminates the events delivered by Dispatch.
type EventKind int

const (
	// EventFrame carries one decoded frame.
	EventFrame EventKind = iota + 1

	// EventDone signals the normal end of the stream.
	EventDone

	// EventError signals a transport failure.
	EventError
)

// Event is one callback delivered by Dispatch.
type Event struct {
	Kind EventKind

	// Frame is set for EventFrame.
	Frame Frame

	// Message is set for EventError.
	Message string
}

// Dispatch pushes every remaining frame to fn in order, followed by exactly
// one EventDone or EventError. A cancelled stream delivers nothing further.
// Dispatch blocks until the stream reaches its terminal state.
func (s *Stream) Dispatch(fn func(Event)) {
	for f := range s.Frames() {
		fn(Event{Kind: EventFrame, Frame: f})
	}

	switch o := s.Outcome(); o.Kind {
	case OutcomeDone:
		fn(Event{Kind: EventDone})
	case OutcomeError:
		fn(Event{Kind: EventError, Message: o.Message})
	}
}
