package sse

// OutcomeKind is the terminal state of a Stream.
type OutcomeKind int

const (
	// OutcomePending means the stream has not reached a terminal state yet.
	OutcomePending OutcomeKind = iota

	// OutcomeDone means the body ended normally.
	OutcomeDone

	// OutcomeError means a transport failure ended the stream.
	OutcomeError

	// OutcomeCancelled means cancellation was requested, either through
	// Stream.Cancel or the parent context. It is never surfaced as an error.
	OutcomeCancelled
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomePending:
		return "pending"
	case OutcomeDone:
		return "done"
	case OutcomeError:
		return "error"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is the single terminal signal of a Stream.
type Outcome struct {
	Kind OutcomeKind

	// Message is the human readable failure for OutcomeError.
	Message string

	// Err is the underlying failure for OutcomeError.
	Err error
}

// Terminal reports whether the outcome ends the stream.
func (o Outcome) Terminal() bool {
	return o.Kind != OutcomePending
}

// Done returns the normal end-of-stream outcome.
func Done() Outcome {
	return Outcome{Kind: OutcomeDone}
}

// Failed returns an OutcomeError for err.
func Failed(err error) Outcome {
	return Outcome{Kind: OutcomeError, Message: err.Error(), Err: err}
}

// Cancelled returns the cancellation outcome.
func Cancelled() Outcome {
	return Outcome{Kind: OutcomeCancelled}
}
