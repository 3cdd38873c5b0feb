// Package conversation folds streamed frames into chat and research state.
//
// Every function is a pure reducer: it takes a state value and returns the
// next one, so callers own storage and concurrency. Only data frames move
// state. Within a data frame the first matching field wins, in this order:
// a thinking status, a tool name, content text, then the complete status.
package conversation

import (
	"github.com/papercomputeco/sdr/pkg/sse"
)

// Status is the loading indicator shown while a turn streams.
type Status string

const (
	StatusIdle     Status = ""
	StatusThinking Status = "thinking"
	StatusTool     Status = "tool"
)

const (
	serverProcessing  = "processing"
	serverResearching = "researching"
	serverComplete    = "complete"
)

// payload is the union of the data shapes the server sends.
type payload struct {
	Status string `json:"status"`
	Name   string `json:"name"`
	Text   string `json:"text"`

	// Success is only present on tool results.
	Success *bool `json:"success"`
}

// announcesTool reports whether p starts a tool call rather than reporting
// its result.
func (p payload) announcesTool() bool {
	return p.Name != "" && p.Success == nil
}

type transition int

const (
	noTransition transition = iota
	toThinking
	toTool
	toText
	toComplete
)

// classify decodes a frame and picks its transition. Event type frames and
// data that is not an object of the known shape produce noTransition.
func classify(f sse.Frame) (transition, payload) {
	var p payload
	if f.Kind != sse.FrameData {
		return noTransition, p
	}
	if err := f.Decode(&p); err != nil {
		return noTransition, p
	}

	switch {
	case p.Status == serverProcessing || p.Status == serverResearching:
		return toThinking, p
	case p.Name != "":
		return toTool, p
	case p.Text != "":
		return toText, p
	case p.Status == serverComplete:
		return toComplete, p
	default:
		return noTransition, p
	}
}
