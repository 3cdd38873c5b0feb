package client_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sdr/devserver"
	"github.com/papercomputeco/sdr/pkg/client"
	"github.com/papercomputeco/sdr/pkg/conversation"
	"github.com/papercomputeco/sdr/pkg/sse"
)

func startDevServer() string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())

	srv := devserver.NewServer(devserver.Config{})
	go func() {
		defer GinkgoRecover()
		_ = srv.RunWithListener(listener)
	}()
	DeferCleanup(srv.Shutdown)

	return "http://" + listener.Addr().String() + "/api"
}

var _ = Describe("New", func() {
	It("defaults to the local server", func() {
		c, err := client.New(client.Config{})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.BaseURL()).To(Equal(client.DefaultBaseURL))
	})

	It("trims a trailing slash", func() {
		c, err := client.New(client.Config{BaseURL: "http://sdr.test/api/"})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.BaseURL()).To(Equal("http://sdr.test/api"))
	})

	It("rejects non-http base URLs", func() {
		_, err := client.New(client.Config{BaseURL: "ftp://sdr.test"})
		Expect(err).To(HaveOccurred())

		_, err = client.New(client.Config{BaseURL: "localhost:5001"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Client", func() {
	var (
		c   *client.Client
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		c, err = client.New(client.Config{BaseURL: startDevServer()})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Chat", func() {
		It("streams a turn that folds into one assistant message", func() {
			stream, err := c.Chat(ctx, "please research Acme", "chat-1")
			Expect(err).NotTo(HaveOccurred())

			state := conversation.FoldChat(conversation.Send(conversation.ChatState{}, "please research Acme"), stream, nil)

			Expect(state.Err).To(BeEmpty())
			Expect(state.Loading).To(BeFalse())
			Expect(state.Tools).To(Equal([]string{"web_search"}))
			Expect(state.Messages).To(HaveLen(2))

			last, ok := state.LastAssistant()
			Expect(ok).To(BeTrue())
			Expect(last.Content).To(ContainSubstring("please research Acme"))
		})

		It("rejects a blank message without sending a request", func() {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				hits.Add(1)
			}))
			DeferCleanup(srv.Close)

			local, err := client.New(client.Config{BaseURL: srv.URL})
			Expect(err).NotTo(HaveOccurred())

			_, err = local.Chat(ctx, "   ", "")
			Expect(err).To(MatchError(client.ErrEmptyMessage))
			Expect(hits.Load()).To(BeZero())
		})

		It("can be cancelled mid-turn", func() {
			stream, err := c.Chat(ctx, "hello", "")
			Expect(err).NotTo(HaveOccurred())

			stream.Cancel()
			Expect(stream.Wait().Kind).To(Equal(sse.OutcomeCancelled))
		})
	})

	Describe("Research", func() {
		It("researches a company", func() {
			stream, err := c.Research(ctx, client.ResearchCompany, client.ResearchParams{Company: "Acme"}, "")
			Expect(err).NotTo(HaveOccurred())

			state := conversation.FoldResearch(conversation.StartResearch(conversation.ResearchState{}), stream, nil)
			Expect(state.Err).To(BeEmpty())
			Expect(state.Tools).To(HaveLen(2))
			Expect(state.Result).To(HavePrefix("# Acme"))
		})

		It("researches a prospect with company context", func() {
			stream, err := c.Research(ctx, client.ResearchProspect, client.ResearchParams{Prospect: "Ada", Company: "Acme"}, "")
			Expect(err).NotTo(HaveOccurred())

			state := conversation.FoldResearch(conversation.StartResearch(conversation.ResearchState{}), stream, nil)
			Expect(state.Result).To(HavePrefix("# Ada"))
			Expect(state.Result).To(ContainSubstring("Works at Acme"))
		})

		It("validates the subject before sending", func() {
			_, err := c.Research(ctx, client.ResearchCompany, client.ResearchParams{Prospect: "Ada"}, "")
			Expect(err).To(MatchError(client.ErrEmptyCompany))

			_, err = c.Research(ctx, client.ResearchProspect, client.ResearchParams{Company: "Acme"}, "")
			Expect(err).To(MatchError(client.ErrEmptyProspect))
		})
	})

	Describe("sessions", func() {
		It("returns the history of completed turns", func() {
			stream, err := c.Chat(ctx, "hello", "s1")
			Expect(err).NotTo(HaveOccurred())
			Expect(stream.Wait().Kind).To(Equal(sse.OutcomeDone))

			msgs, err := c.History(ctx, "s1")
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0]).To(Equal(client.HistoryMessage{Role: "user", Content: "hello"}))
		})

		It("clears a session", func() {
			stream, err := c.Chat(ctx, "hello", "")
			Expect(err).NotTo(HaveOccurred())
			stream.Wait()

			resp, err := c.Clear(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal("cleared"))

			msgs, err := c.History(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(BeEmpty())
		})

		It("checks health", func() {
			Expect(c.Health(ctx)).To(Succeed())
		})
	})
})

var _ = Describe("Client errors", func() {
	It("surfaces the server's error message as a StatusError", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Settings not configured"}`))
		}))
		DeferCleanup(srv.Close)

		c, err := client.New(client.Config{BaseURL: srv.URL})
		Expect(err).NotTo(HaveOccurred())

		err = c.Health(context.Background())
		var statusErr *sse.StatusError
		Expect(errors.As(err, &statusErr)).To(BeTrue())
		Expect(statusErr.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(statusErr.Message).To(Equal("Settings not configured"))
	})

	It("reports an unreachable server", func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, err := client.New(client.Config{BaseURL: url})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Health(context.Background())).NotTo(Succeed())

		stream, err := c.Chat(context.Background(), "hello", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(stream.Wait().Kind).To(Equal(sse.OutcomeError))
	})
})
