package eventstream

import "context"

// Publisher sends committed turn events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event *TurnCommittedEvent) error
	Close() error
}
