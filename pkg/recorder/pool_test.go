package recorder_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sdr/pkg/eventstream"
	"github.com/papercomputeco/sdr/pkg/recorder"
	"github.com/papercomputeco/sdr/pkg/transcript"
	"github.com/papercomputeco/sdr/pkg/transcript/inmemory"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []*eventstream.TurnCommittedEvent
	err    error
	closed bool
}

func (p *capturePublisher) Publish(_ context.Context, event *eventstream.TurnCommittedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error {
	p.closed = true
	return nil
}

// failingDriver refuses every turn.
type failingDriver struct {
	*inmemory.Driver
}

func (failingDriver) Put(context.Context, *transcript.Turn) error {
	return errors.New("disk full")
}

var _ = Describe("Pool", func() {
	var (
		driver    *inmemory.Driver
		publisher *capturePublisher
		pool      *recorder.Pool
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = inmemory.NewDriver()
		publisher = &capturePublisher{}

		var err error
		pool, err = recorder.NewPool(&recorder.Config{
			Driver:    driver,
			Publisher: publisher,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("stores and publishes every enqueued turn", func() {
		first := transcript.NewTurn("s1", transcript.KindChat, "hello")
		second := transcript.NewTurn("s1", transcript.KindChat, "again")

		Expect(pool.Enqueue(first)).To(BeTrue())
		Expect(pool.Enqueue(second)).To(BeTrue())

		// Drain the pool to ensure recording completes before assertions
		Expect(pool.Close()).To(Succeed())

		stored, err := driver.List(ctx, transcript.ListOptions{SessionID: "s1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(HaveLen(2))

		Expect(publisher.events).To(HaveLen(2))
		Expect(publisher.events[0].Turn.ID).To(Equal(first.ID))
		Expect(publisher.events[1].Turn.ID).To(Equal(second.ID))
		Expect(publisher.closed).To(BeTrue())
	})

	It("ignores nil turns", func() {
		Expect(pool.Enqueue(nil)).To(BeFalse())
		Expect(pool.Close()).To(Succeed())
		Expect(publisher.events).To(BeEmpty())
	})

	It("is safe to close twice", func() {
		Expect(pool.Close()).To(Succeed())
		Expect(pool.Close()).To(Succeed())
	})

	It("keeps storing when publishing fails", func() {
		publisher.err = errors.New("broker unavailable")

		turn := transcript.NewTurn("s1", transcript.KindChat, "hello")
		pool.Enqueue(turn)
		Expect(pool.Close()).To(Succeed())

		_, err := driver.Get(ctx, turn.ID)
		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("Pool without a store", func() {
	It("only publishes", func() {
		publisher := &capturePublisher{}
		pool, err := recorder.NewPool(&recorder.Config{Publisher: publisher})
		Expect(err).NotTo(HaveOccurred())

		pool.Enqueue(transcript.NewTurn("s1", transcript.KindCompany, "Acme"))
		Expect(pool.Close()).To(Succeed())

		Expect(publisher.events).To(HaveLen(1))
	})

	It("does not publish turns that failed to store", func() {
		publisher := &capturePublisher{}
		pool, err := recorder.NewPool(&recorder.Config{
			Driver:    failingDriver{inmemory.NewDriver()},
			Publisher: publisher,
		})
		Expect(err).NotTo(HaveOccurred())

		pool.Enqueue(transcript.NewTurn("s1", transcript.KindChat, "hello"))
		Expect(pool.Close()).To(Succeed())

		Expect(publisher.events).To(BeEmpty())
	})
})
