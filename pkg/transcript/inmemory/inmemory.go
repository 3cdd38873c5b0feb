// Package inmemory provides a map-backed transcript driver for tests and
// short-lived processes.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/papercomputeco/sdr/pkg/transcript"
)

// Driver implements transcript.Driver using an in-memory map.
type Driver struct {
	mu    sync.RWMutex
	turns map[uuid.UUID]*transcript.Turn
}

// NewDriver creates a new in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		turns: make(map[uuid.UUID]*transcript.Turn),
	}
}

func (d *Driver) Put(_ context.Context, turn *transcript.Turn) error {
	if turn == nil {
		return errors.New("cannot store nil turn")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.turns[turn.ID]; ok {
		return fmt.Errorf("turn %s already exists", turn.ID)
	}

	d.turns[turn.ID] = clone(turn)
	return nil
}

func (d *Driver) Get(_ context.Context, id uuid.UUID) (*transcript.Turn, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	turn, ok := d.turns[id]
	if !ok {
		return nil, transcript.NotFoundError{ID: id.String()}
	}

	return clone(turn), nil
}

func (d *Driver) List(_ context.Context, opts transcript.ListOptions) ([]*transcript.Turn, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]*transcript.Turn, 0, len(d.turns))
	for _, turn := range d.turns {
		if opts.SessionID != "" && turn.SessionID != opts.SessionID {
			continue
		}
		result = append(result, clone(turn))
	}

	slices.SortFunc(result, func(a, b *transcript.Turn) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result, nil
}

func (d *Driver) DeleteSession(_ context.Context, sessionID string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for id, turn := range d.turns {
		if turn.SessionID == sessionID {
			delete(d.turns, id)
			n++
		}
	}

	return n, nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

func clone(t *transcript.Turn) *transcript.Turn {
	c := *t
	c.Tools = slices.Clone(t.Tools)
	return &c
}
