package sse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	eventPrefix = "event: "
	dataPrefix  = "data: "
)

// ErrLineTooLong is returned when a single line outgrows the configured
// maximum line size.
var ErrLineTooLong = errors.New("sse: line exceeds maximum size")

// Decoder incrementally splits a byte stream into lines and turns the
// recognized ones into Frames.
//
// Bytes are buffered until a newline arrives, so a multi-byte UTF-8 sequence
// split across two Feed calls is reassembled before the line is decoded.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	buf         []byte
	maxLineSize int
	trailing    TrailingLine
	logger      *slog.Logger
}

// NewDecoder returns a Decoder configured by opts.
func NewDecoder(opts ...Option) *Decoder {
	o := newOptions(opts)
	return &Decoder{
		maxLineSize: o.maxLineSize,
		trailing:    o.trailing,
		logger:      o.logger,
	}
}

// Feed appends chunk to the buffer and returns the frames for every line
// completed by it, in order. The final incomplete line stays buffered.
//
// Frames decoded before an ErrLineTooLong failure are still returned.
func (d *Decoder) Feed(chunk []byte) ([]Frame, error) {
	d.buf = append(d.buf, chunk...)

	var frames []Frame
	off := 0
	for {
		i := bytes.IndexByte(d.buf[off:], '\n')
		if i < 0 {
			break
		}

		line := d.buf[off : off+i]
		off += i + 1

		if len(line) > d.maxLineSize {
			d.compact(off)
			return frames, fmt.Errorf("%w (%d bytes)", ErrLineTooLong, len(line))
		}

		if f, ok := d.parseLine(line); ok {
			frames = append(frames, f)
		}
	}

	d.compact(off)

	if len(d.buf) > d.maxLineSize {
		return frames, fmt.Errorf("%w (%d buffered bytes)", ErrLineTooLong, len(d.buf))
	}

	return frames, nil
}

// Flush handles the buffered, unterminated trailing line at end of stream
// according to the trailing line policy. The buffer is empty afterwards.
func (d *Decoder) Flush() []Frame {
	if len(d.buf) == 0 {
		return nil
	}
	defer func() { d.buf = d.buf[:0] }()

	if d.trailing == DropTrailing {
		d.logger.Debug("dropping unterminated trailing line",
			"bytes", len(d.buf),
		)
		return nil
	}

	if f, ok := d.parseLine(d.buf); ok {
		return []Frame{f}
	}
	return nil
}

// Buffered returns the number of bytes waiting for a newline.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// compact drops the consumed prefix of the buffer.
func (d *Decoder) compact(off int) {
	if off == 0 {
		return
	}
	n := copy(d.buf, d.buf[off:])
	d.buf = d.buf[:n]
}

// parseLine turns one complete line (without its newline) into a frame.
// Lines that are blank, carry an unknown prefix, or hold malformed JSON
// yield no frame.
func (d *Decoder) parseLine(raw []byte) (Frame, bool) {
	line := strings.ToValidUTF8(string(raw), "\uFFFD")

	switch {
	case strings.HasPrefix(line, eventPrefix):
		name := strings.TrimSuffix(line[len(eventPrefix):], "\r")
		return EventTypeFrame(name), true

	case strings.HasPrefix(line, dataPrefix):
		var data json.RawMessage
		if err := json.Unmarshal([]byte(line[len(dataPrefix):]), &data); err != nil {
			d.logger.Debug("failed to parse SSE data",
				"error", err,
				"line", line,
			)
			return Frame{}, false
		}
		return DataFrame(data), true

	default:
		return Frame{}, false
	}
}
