// Package eventstream publishes an event for every committed turn so other
// systems can follow the conversation without polling the transcript store.
package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/sdr/pkg/transcript"
)

const (
	// TurnCommittedType names the event emitted after a turn is recorded.
	TurnCommittedType = "sdr.turn.committed"

	// TurnCommittedSchema versions the event payload.
	TurnCommittedSchema = "sdr.turn.committed.v1"
)

// TurnCommittedEvent is the payload published for a committed turn.
type TurnCommittedEvent struct {
	Schema     string           `json:"schema"`
	EventID    uuid.UUID        `json:"event_id"`
	OccurredAt time.Time        `json:"occurred_at"`
	Turn       *transcript.Turn `json:"turn"`
}

// NewTurnCommittedEvent wraps turn in a new event.
func NewTurnCommittedEvent(turn *transcript.Turn) (*TurnCommittedEvent, error) {
	if turn == nil {
		return nil, ErrNilTurnEvent
	}

	return &TurnCommittedEvent{
		Schema:     TurnCommittedSchema,
		EventID:    uuid.New(),
		OccurredAt: time.Now().UTC(),
		Turn:       turn,
	}, nil
}
