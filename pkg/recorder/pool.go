// Package recorder persists finished turns and publishes their events off
// the interactive path.
//
// A command enqueues each turn as it finishes and keeps talking to the
// server; the pool's workers write to the transcript store and then the
// event stream.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/papercomputeco/sdr/pkg/eventstream"
	"github.com/papercomputeco/sdr/pkg/logger"
	"github.com/papercomputeco/sdr/pkg/transcript"
)

var (
	defaultNumWorkers   uint = 1
	defaultJobQueueSize uint = 64
	defaultJobTimeout        = 30 * time.Second
)

// Config is the configuration options for the recorder pool.
type Config struct {
	// Driver stores turns. Optional.
	Driver transcript.Driver

	// Publisher emits an event for every stored turn. Optional.
	Publisher eventstream.Publisher

	// NumWorkers is the number of background workers. A single worker
	// keeps a session's turns in order.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 64).
	QueueSize uint

	// JobTimeout bounds the store and publish calls of one turn.
	JobTimeout time.Duration

	Logger *slog.Logger
}

// Pool records turns asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan *transcript.Turn
	wg     sync.WaitGroup
	logger *slog.Logger

	closeOnce sync.Once
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.JobTimeout == 0 {
		c.JobTimeout = defaultJobTimeout
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	if c.Logger == nil {
		c.Logger = logger.Nop()
	}

	p := &Pool{
		config: c,
		queue:  make(chan *transcript.Turn, c.QueueSize),
		logger: c.Logger,
	}

	p.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go p.worker(i)
	}

	return p, nil
}

// Enqueue submits a turn for recording.
// Returns true if enqueued, false if the queue is full, resulting in the turn being dropped
func (p *Pool) Enqueue(turn *transcript.Turn) bool {
	if turn == nil {
		return false
	}

	select {
	case p.queue <- turn:
		p.logger.Debug("turn queued",
			"turn_id", turn.ID,
			"session_id", turn.SessionID,
		)
		return true
	default:
		p.logger.Error("turn not queued, queue full, turn dropped",
			"turn_id", turn.ID,
			"session_id", turn.SessionID,
		)
		return false
	}
}

// Close stops accepting turns and waits for queued ones to be recorded.
// It then closes the driver and the publisher. Close is idempotent.
func (p *Pool) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.queue)
		p.wg.Wait()

		if p.config.Publisher != nil {
			err = errors.Join(err, p.config.Publisher.Close())
		}
		if p.config.Driver != nil {
			err = errors.Join(err, p.config.Driver.Close())
		}
	})
	return err
}

// worker is the inner worker thread that continuously pulls turns off the queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("recorder worker started", "worker_id", id)

	for turn := range p.queue {
		p.record(turn)
	}

	p.logger.Debug("recorder worker stopped", "worker_id", id)
}

// record stores a turn and then publishes it. A turn that could not be
// stored is not published.
func (p *Pool) record(turn *transcript.Turn) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.JobTimeout)
	defer cancel()

	if p.config.Driver != nil {
		if err := p.config.Driver.Put(ctx, turn); err != nil {
			p.logger.Error("failed to store turn",
				"turn_id", turn.ID,
				"error", err,
			)
			return
		}
		p.logger.Debug("turn stored", "turn_id", turn.ID)
	}

	if p.config.Publisher == nil {
		return
	}

	event, err := eventstream.NewTurnCommittedEvent(turn)
	if err != nil {
		p.logger.Error("failed to build turn event", "turn_id", turn.ID, "error", err)
		return
	}

	if err := p.config.Publisher.Publish(ctx, event); err != nil {
		p.logger.Warn("failed to publish turn event",
			"turn_id", turn.ID,
			"error", err,
		)
	}
}
