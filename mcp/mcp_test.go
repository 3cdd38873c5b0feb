package mcp_test

import (
	"context"
	"net"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sdr/devserver"
	"github.com/papercomputeco/sdr/mcp"
	"github.com/papercomputeco/sdr/pkg/client"
	"github.com/papercomputeco/sdr/pkg/logger"
	"github.com/papercomputeco/sdr/pkg/recorder"
	"github.com/papercomputeco/sdr/pkg/transcript"
	"github.com/papercomputeco/sdr/pkg/transcript/inmemory"
)

func listen() net.Listener {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	return l
}

// startBackend runs a development server and returns a client for it.
func startBackend() *client.Client {
	l := listen()
	srv := devserver.NewServer(devserver.Config{})
	go func() {
		defer GinkgoRecover()
		_ = srv.RunWithListener(l)
	}()
	DeferCleanup(srv.Shutdown)

	c, err := client.New(client.Config{BaseURL: "http://" + l.Addr().String() + "/api"})
	Expect(err).NotTo(HaveOccurred())
	return c
}

// connect hosts server over HTTP and returns a connected MCP client session.
func connect(server *mcp.Server) *sdkmcp.ClientSession {
	l := listen()
	host := mcp.NewHost(mcp.HostConfig{}, server)
	go func() {
		defer GinkgoRecover()
		_ = host.RunWithListener(l)
	}()
	DeferCleanup(host.Shutdown)

	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "sdr-test", Version: "v0.0.1"}, nil)
	session, err := c.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint: "http://" + l.Addr().String() + "/mcp",
	}, nil)
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(session.Close)

	return session
}

func text(res *sdkmcp.CallToolResult) string {
	Expect(res.Content).NotTo(BeEmpty())
	tc, ok := res.Content[0].(*sdkmcp.TextContent)
	Expect(ok).To(BeTrue())
	return tc.Text
}

var _ = Describe("MCP Server", func() {
	Describe("NewServer", func() {
		It("returns an error when the client is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Logger: logger.Nop()})
			Expect(err).To(MatchError(ContainSubstring("client is required")))
		})

		It("returns an error when logger is nil", func() {
			c, err := client.New(client.Config{})
			Expect(err).NotTo(HaveOccurred())

			_, err = mcp.NewServer(mcp.Config{Client: c})
			Expect(err).To(MatchError(ContainSubstring("logger is required")))
		})

		It("returns an HTTP handler", func() {
			c, err := client.New(client.Config{})
			Expect(err).NotTo(HaveOccurred())

			server, err := mcp.NewServer(mcp.Config{Client: c, Logger: logger.Nop()})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})
	})

	Describe("tools", func() {
		var (
			ctx     context.Context
			session *sdkmcp.ClientSession
			driver  *inmemory.Driver
			pool    *recorder.Pool
		)

		BeforeEach(func() {
			ctx = context.Background()
			driver = inmemory.NewDriver()

			var err error
			pool, err = recorder.NewPool(&recorder.Config{Driver: driver})
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(pool.Close)

			server, err := mcp.NewServer(mcp.Config{
				Client:      startBackend(),
				Transcripts: driver,
				Recorder:    pool,
				Logger:      logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())

			session = connect(server)
		})

		It("lists every tool", func() {
			res, err := session.ListTools(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			var names []string
			for _, t := range res.Tools {
				names = append(names, t.Name)
			}
			Expect(names).To(ConsistOf("research_company", "research_prospect", "chat", "list_turns"))
		})

		It("researches a company", func() {
			res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
				Name:      "research_company",
				Arguments: map[string]any{"company": "Acme"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(text(res)).To(HavePrefix("# Acme"))
		})

		It("researches a prospect", func() {
			res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
				Name:      "research_prospect",
				Arguments: map[string]any{"prospect": "Ada", "company": "Acme"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(text(res)).To(ContainSubstring("Works at Acme"))
		})

		It("reports a missing company as a tool error", func() {
			res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
				Name:      "research_company",
				Arguments: map[string]any{"company": " "},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(text(res)).To(Equal("company is required"))
		})

		It("chats and records the turn", func() {
			res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
				Name:      "chat",
				Arguments: map[string]any{"message": "hello there"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(text(res)).To(ContainSubstring("hello there"))

			Expect(pool.Close()).To(Succeed())

			turns, err := driver.List(ctx, transcript.ListOptions{SessionID: "mcp"})
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(1))
			Expect(turns[0].Prompt).To(Equal("hello there"))
		})

		It("lists recorded turns", func() {
			turn := transcript.NewTurn("s9", transcript.KindChat, "hi")
			turn.Reply = "hello"
			Expect(driver.Put(ctx, turn)).To(Succeed())

			res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
				Name:      "list_turns",
				Arguments: map[string]any{"session_id": "s9"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(text(res)).To(ContainSubstring(turn.ID.String()))
		})
	})

	Describe("with an unreachable backend", func() {
		It("returns the failure as a tool error", func() {
			l := listen()
			addr := l.Addr().String()
			Expect(l.Close()).To(Succeed())

			c, err := client.New(client.Config{BaseURL: "http://" + addr + "/api"})
			Expect(err).NotTo(HaveOccurred())

			server, err := mcp.NewServer(mcp.Config{Client: c, Logger: logger.Nop()})
			Expect(err).NotTo(HaveOccurred())
			session := connect(server)

			res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
				Name:      "chat",
				Arguments: map[string]any{"message": "hello"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(text(res)).To(HavePrefix("Chat failed: "))
		})
	})
})
