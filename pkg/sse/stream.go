package sse

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
)

// Stream reads frames from one streaming HTTP response.
//
// A Stream is created per request by Open, yields a finite sequence of
// frames through Next (or Frames), and ends with exactly one terminal
// Outcome. It is never reused.
//
// ┌──────────────┐   ┌───────────┐   ┌──────────────┐
// │ resp.Body    │──▶│ Decoder   │──▶│ Next() Frame │
// └──────────────┘   └───────────┘   └──────────────┘
//
//	Cancel() ─▶ aborts the request context; the read error that follows
//	            is classified as OutcomeCancelled, never OutcomeError.
//
// Next, Frames, Dispatch and Outcome belong to the single consumer. Cancel
// may be called from any goroutine, any number of times.
type Stream struct {
	parent context.Context
	cancel context.CancelFunc

	cancelled  atomic.Bool
	cancelOnce sync.Once

	body    io.ReadCloser
	dec     *Decoder
	chunk   []byte
	pending []Frame
	outcome Outcome
	logger  *slog.Logger
}

// Open issues req with client and returns a Stream over the response body.
//
// Open never returns a nil Stream. A request that fails before any body is
// available (transport error, non-2xx status) yields a Stream whose first
// Next returns false with the failure recorded in Outcome.
func Open(ctx context.Context, client *http.Client, req *http.Request, opts ...Option) *Stream {
	o := newOptions(opts)
	if client == nil {
		client = http.DefaultClient
	}

	sctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		parent: ctx,
		cancel: cancel,
		dec: &Decoder{
			maxLineSize: o.maxLineSize,
			trailing:    o.trailing,
			logger:      o.logger,
		},
		chunk:  make([]byte, o.readSize),
		logger: o.logger,
	}

	s.logger.Debug("opening stream",
		"method", req.Method,
		"url", req.URL.String(),
	)

	resp, err := client.Do(req.WithContext(sctx))
	if err != nil {
		s.fail(err)
		return s
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := ReadStatusError(resp)
		resp.Body.Close()
		s.fail(statusErr)
		return s
	}

	s.body = resp.Body
	return s
}

// Next returns the next frame. It blocks on body reads and returns false once
// the stream has reached its terminal state; Outcome then reports why.
func (s *Stream) Next() (Frame, bool) {
	for {
		if s.cancelled.Load() {
			s.pending = nil
			s.finish(Cancelled())
			return Frame{}, false
		}

		if len(s.pending) > 0 {
			f := s.pending[0]
			s.pending = s.pending[1:]
			return f, true
		}

		if s.outcome.Terminal() {
			return Frame{}, false
		}

		s.read()
	}
}

// Frames returns the remaining frames as an iterator. Stopping the iteration
// early cancels the stream.
func (s *Stream) Frames() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for {
			f, ok := s.Next()
			if !ok {
				return
			}
			if !yield(f) {
				s.Cancel()
				return
			}
		}
	}
}

// Cancel aborts the underlying request. It is idempotent and safe to call
// after the stream has completed.
func (s *Stream) Cancel() {
	s.cancelOnce.Do(func() {
		s.cancelled.Store(true)
		s.cancel()
	})
}

// Outcome returns the terminal outcome, or an OutcomePending outcome while
// frames may still arrive.
func (s *Stream) Outcome() Outcome {
	return s.outcome
}

// Wait drains the remaining frames and returns the terminal outcome.
func (s *Stream) Wait() Outcome {
	for range s.Frames() {
	}
	return s.outcome
}

// read performs one body read and queues the frames it completes.
func (s *Stream) read() {
	n, err := s.body.Read(s.chunk)
	if n > 0 {
		frames, ferr := s.dec.Feed(s.chunk[:n])
		s.pending = append(s.pending, frames...)
		if ferr != nil {
			s.fail(ferr)
			return
		}
	}

	switch {
	case err == nil:
		return
	case errors.Is(err, io.EOF):
		s.pending = append(s.pending, s.dec.Flush()...)
		s.finish(Done())
	default:
		s.fail(err)
	}
}

// fail records err as the terminal outcome, unless cancellation was
// requested, in which case the error is the expected consequence of the
// abort and is suppressed.
func (s *Stream) fail(err error) {
	if s.cancelled.Load() || errors.Is(s.parent.Err(), context.Canceled) {
		s.pending = nil
		s.finish(Cancelled())
		return
	}
	s.finish(Failed(err))
}

// finish records the first terminal outcome and releases the response.
// Later calls are no-ops.
func (s *Stream) finish(o Outcome) {
	if s.outcome.Terminal() {
		return
	}
	s.outcome = o

	if s.body != nil {
		s.body.Close()
	}
	s.cancel()

	s.logger.Debug("stream finished",
		"outcome", o.Kind.String(),
		"message", o.Message,
	)
}
