// Package nop provides the publisher used when no event stream is configured.
package nop

import (
	"context"

	"github.com/papercomputeco/sdr/pkg/eventstream"
)

// Publisher drops every event after validating it.
type Publisher struct{}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(_ context.Context, event *eventstream.TurnCommittedEvent) error {
	if event == nil || event.Turn == nil {
		return eventstream.ErrNilTurnEvent
	}
	return nil
}

func (p *Publisher) Close() error {
	return nil
}
