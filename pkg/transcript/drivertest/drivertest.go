// Package drivertest holds the behavior every transcript.Driver shares,
// registered as Ginkgo specs so each driver suite runs the same checks.
package drivertest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sdr/pkg/transcript"
)

// NewTurn builds a turn created at offset past a fixed instant, so list
// order is deterministic.
func NewTurn(sessionID string, offset time.Duration) *transcript.Turn {
	turn := transcript.NewTurn(sessionID, transcript.KindChat, "hello")
	turn.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Add(offset)
	turn.Reply = "**hi** there"
	turn.Tools = []string{"web_search", "send_email"}
	turn.Duration = 1500 * time.Millisecond
	return turn
}

// DescribeDriver registers the shared driver specs. newDriver is called
// before each spec and must return an empty store.
func DescribeDriver(newDriver func() transcript.Driver) {
	var (
		driver transcript.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = newDriver()
		DeferCleanup(driver.Close)
	})

	Describe("Put and Get", func() {
		It("stores and retrieves a turn", func() {
			turn := NewTurn("s1", 0)
			Expect(driver.Put(ctx, turn)).To(Succeed())

			got, err := driver.Get(ctx, turn.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(turn.ID))
			Expect(got.SessionID).To(Equal("s1"))
			Expect(got.Kind).To(Equal(transcript.KindChat))
			Expect(got.Prompt).To(Equal("hello"))
			Expect(got.Reply).To(Equal("**hi** there"))
			Expect(got.Tools).To(Equal([]string{"web_search", "send_email"}))
			Expect(got.Duration).To(Equal(1500 * time.Millisecond))
			Expect(got.CreatedAt).To(BeTemporally("~", turn.CreatedAt, time.Millisecond))
		})

		It("keeps the error of a failed turn", func() {
			turn := NewTurn("s1", 0)
			turn.Tools = nil
			turn.Error = "server returned status 500"
			Expect(driver.Put(ctx, turn)).To(Succeed())

			got, err := driver.Get(ctx, turn.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Failed()).To(BeTrue())
			Expect(got.Tools).To(BeEmpty())
		})

		It("rejects a duplicate ID", func() {
			turn := NewTurn("s1", 0)
			Expect(driver.Put(ctx, turn)).To(Succeed())
			Expect(driver.Put(ctx, turn)).NotTo(Succeed())
		})

		It("rejects a nil turn", func() {
			Expect(driver.Put(ctx, nil)).NotTo(Succeed())
		})

		It("returns NotFoundError for an unknown ID", func() {
			_, err := driver.Get(ctx, uuid.New())

			var notFound transcript.NotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for i, sid := range []string{"a", "b", "a", "a"} {
				Expect(driver.Put(ctx, NewTurn(sid, time.Duration(i)*time.Minute))).To(Succeed())
			}
		})

		It("returns every turn newest first", func() {
			turns, err := driver.List(ctx, transcript.ListOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(4))
			for i := 1; i < len(turns); i++ {
				Expect(turns[i-1].CreatedAt).To(BeTemporally(">", turns[i].CreatedAt))
			}
		})

		It("filters by session", func() {
			turns, err := driver.List(ctx, transcript.ListOptions{SessionID: "a"})
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(3))
			for _, t := range turns {
				Expect(t.SessionID).To(Equal("a"))
			}
		})

		It("applies the limit after ordering", func() {
			turns, err := driver.List(ctx, transcript.ListOptions{SessionID: "a", Limit: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(1))
			Expect(turns[0].CreatedAt).To(BeTemporally("~", NewTurn("a", 3*time.Minute).CreatedAt, time.Millisecond))
		})
	})

	Describe("DeleteSession", func() {
		It("removes only the session's turns", func() {
			Expect(driver.Put(ctx, NewTurn("a", 0))).To(Succeed())
			Expect(driver.Put(ctx, NewTurn("a", time.Minute))).To(Succeed())
			Expect(driver.Put(ctx, NewTurn("b", 0))).To(Succeed())

			n, err := driver.DeleteSession(ctx, "a")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(2))

			turns, err := driver.List(ctx, transcript.ListOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(1))
			Expect(turns[0].SessionID).To(Equal("b"))
		})

		It("reports zero for an unknown session", func() {
			n, err := driver.DeleteSession(ctx, "nobody")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})
	})
}
