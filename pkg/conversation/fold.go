package conversation

import (
	"github.com/papercomputeco/sdr/pkg/sse"
)

// FoldChat drains a chat turn's stream into s and applies its outcome.
// observe, when non-nil, sees the state after every data frame.
func FoldChat(s ChatState, stream *sse.Stream, observe func(ChatState)) ChatState {
	for f := range stream.Frames() {
		s = Reduce(s, f)
		if observe != nil && f.Kind == sse.FrameData {
			observe(s)
		}
	}
	return Finish(s, stream.Outcome())
}

// FoldResearch drains a research stream into s and applies its outcome.
// observe, when non-nil, sees the state after every data frame.
func FoldResearch(s ResearchState, stream *sse.Stream, observe func(ResearchState)) ResearchState {
	for f := range stream.Frames() {
		s = ReduceResearch(s, f)
		if observe != nil && f.Kind == sse.FrameData {
			observe(s)
		}
	}
	return FinishResearch(s, stream.Outcome())
}
