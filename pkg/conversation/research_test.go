package conversation_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sdr/pkg/conversation"
	"github.com/papercomputeco/sdr/pkg/sse"
)

var _ = Describe("Research", func() {
	var state conversation.ResearchState

	BeforeEach(func() {
		state = conversation.StartResearch(conversation.ResearchState{Result: "old", Err: "old"})
	})

	It("starts from a clean loading state", func() {
		Expect(state.Loading).To(BeTrue())
		Expect(state.Status).To(Equal(conversation.StatusThinking))
		Expect(state.Result).To(BeEmpty())
		Expect(state.Err).To(BeEmpty())
	})

	It("sets the result as soon as text arrives", func() {
		state = conversation.ReduceResearch(state, data(`{"text":"# Acme"}`))
		Expect(state.Result).To(Equal("# Acme"))
		Expect(state.Loading).To(BeTrue())

		state = conversation.ReduceResearch(state, data(`{"text":"# Acme v2"}`))
		Expect(state.Result).To(Equal("# Acme v2"))
	})

	It("only ends loading on complete", func() {
		state = conversation.ReduceResearch(state, data(`{"text":"report"}`))
		state = conversation.ReduceResearch(state, data(`{"status":"complete"}`))
		Expect(state.Loading).To(BeFalse())
		Expect(state.Status).To(Equal(conversation.StatusIdle))
		Expect(state.Result).To(Equal("report"))
	})

	It("tracks tools", func() {
		state = conversation.ReduceResearch(state, data(`{"status":"researching"}`))
		state = conversation.ReduceResearch(state, data(`{"name":"linkedin_lookup"}`))
		Expect(state.Status).To(Equal(conversation.StatusTool))
		Expect(state.ToolName).To(Equal("linkedin_lookup"))
		Expect(state.Tools).To(ConsistOf("linkedin_lookup"))
	})

	It("records errors but not cancellations", func() {
		failed := conversation.FinishResearch(state, sse.Failed(errors.New("timeout")))
		Expect(failed.Err).To(Equal("timeout"))
		Expect(failed.Loading).To(BeFalse())

		cancelled := conversation.FinishResearch(state, sse.Cancelled())
		Expect(cancelled.Err).To(BeEmpty())
		Expect(cancelled.Loading).To(BeFalse())
	})
})
