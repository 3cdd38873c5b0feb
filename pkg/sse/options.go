package sse

import (
	"log/slog"

	"github.com/papercomputeco/sdr/pkg/logger"
)

// TrailingLine controls what happens to a final line that is not terminated
// by a newline when the body ends.
type TrailingLine int

const (
	// FlushTrailing parses the unterminated line as if it had been terminated.
	FlushTrailing TrailingLine = iota

	// DropTrailing discards the unterminated line.
	DropTrailing
)

const (
	// DefaultMaxLineSize bounds a single buffered line.
	DefaultMaxLineSize = 1024 * 1024

	defaultReadSize = 32 * 1024
)

// Option configures a Decoder or a Stream.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	trailing    TrailingLine
	maxLineSize int
	readSize    int
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:      logger.Nop(),
		trailing:    FlushTrailing,
		maxLineSize: DefaultMaxLineSize,
		readSize:    defaultReadSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used to record dropped data lines.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTrailingLine sets the end-of-stream policy for an unterminated line.
func WithTrailingLine(p TrailingLine) Option {
	return func(o *options) {
		o.trailing = p
	}
}

// WithMaxLineSize bounds the size of a single line. Non-positive values
// keep the default.
func WithMaxLineSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineSize = n
		}
	}
}

// WithReadSize sets how many bytes a Stream requests from the body per read.
func WithReadSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.readSize = n
		}
	}
}
