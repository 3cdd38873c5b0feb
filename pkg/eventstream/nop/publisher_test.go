package nop_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sdr/pkg/eventstream"
	"github.com/papercomputeco/sdr/pkg/eventstream/nop"
	"github.com/papercomputeco/sdr/pkg/transcript"
)

var _ = Describe("Publisher", func() {
	var p *nop.Publisher

	BeforeEach(func() {
		p = nop.NewPublisher()
	})

	It("accepts committed turn events", func() {
		event, err := eventstream.NewTurnCommittedEvent(transcript.NewTurn("s1", transcript.KindChat, "hi"))
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Publish(context.Background(), event)).To(Succeed())
	})

	It("rejects nil events and events without a turn", func() {
		Expect(p.Publish(context.Background(), nil)).To(MatchError(eventstream.ErrNilTurnEvent))
		Expect(p.Publish(context.Background(), &eventstream.TurnCommittedEvent{})).To(MatchError(eventstream.ErrNilTurnEvent))
	})

	It("closes successfully", func() {
		Expect(p.Close()).To(Succeed())
	})
})
