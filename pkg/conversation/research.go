package conversation

import (
	"github.com/papercomputeco/sdr/pkg/sse"
)

// ResearchState is the state of a single research run.
type ResearchState struct {
	Loading  bool
	Status   Status
	ToolName string
	Tools    []string

	// Result is the latest report text. It is shown as soon as it arrives.
	Result string

	Err string
}

// StartResearch resets the state for a new run.
func StartResearch(ResearchState) ResearchState {
	return ResearchState{
		Loading: true,
		Status:  StatusThinking,
	}
}

// ReduceResearch folds one frame into the state. Text sets Result directly
// and a complete status only ends loading.
func ReduceResearch(s ResearchState, f sse.Frame) ResearchState {
	t, p := classify(f)
	switch t {
	case toThinking:
		s.Status = StatusThinking
	case toTool:
		s.Status = StatusTool
		s.ToolName = p.Name
		if p.announcesTool() {
			s.Tools = append(s.Tools[:len(s.Tools):len(s.Tools)], p.Name)
		}
	case toText:
		s.Result = p.Text
	case toComplete:
		s.Loading = false
		s.Status = StatusIdle
	}
	return s
}

// FinishResearch applies the terminal outcome of the run's stream.
func FinishResearch(s ResearchState, o sse.Outcome) ResearchState {
	switch o.Kind {
	case sse.OutcomeError:
		s.Err = o.Message
		s.Loading = false
		s.Status = StatusIdle
	case sse.OutcomeDone, sse.OutcomeCancelled:
		s.Loading = false
		s.Status = StatusIdle
	}
	return s
}
