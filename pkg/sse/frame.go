// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// client reader for the SDR agent server's streaming endpoints.
//
// The server writes each logical event as an "event:" line followed by a
// "data:" line carrying a JSON object. This package does not assemble lines
// into complete WHATWG events: every recognized line is surfaced as its own Frame,
// in the order its terminating newline arrived on the wire.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import (
	"encoding/json"
	"errors"
)

// FrameKind discriminates the two kinds of Frame.
type FrameKind int

const (
	// FrameEventType is derived from an "event: " line.
	FrameEventType FrameKind = iota + 1

	// FrameData is derived from a "data: " line whose remainder is valid JSON.
	FrameData
)

func (k FrameKind) String() string {
	switch k {
	case FrameEventType:
		return "eventType"
	case FrameData:
		return "data"
	default:
		return "unknown"
	}
}

// Frame is a single decoded line of the stream.
type Frame struct {
	Kind FrameKind

	// EventType is the event name for FrameEventType frames.
	EventType string

	// Data is the JSON payload for FrameData frames. It is always valid JSON.
	Data json.RawMessage
}

// EventTypeFrame returns a frame for an "event: " line.
func EventTypeFrame(name string) Frame {
	return Frame{Kind: FrameEventType, EventType: name}
}

// DataFrame returns a frame for a "data: " line.
func DataFrame(data json.RawMessage) Frame {
	return Frame{Kind: FrameData, Data: data}
}

// Decode unmarshals the data payload into v.
func (f Frame) Decode(v any) error {
	if f.Kind != FrameData {
		return errors.New("sse: frame carries no data")
	}
	return json.Unmarshal(f.Data, v)
}
