package servecmder_test

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	servecmder "github.com/papercomputeco/sdr/cmd/sdr/serve"
)

// freeAddr returns a local address nothing is listening on.
func freeAddr() string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	addr := l.Addr().String()
	Expect(l.Close()).To(Succeed())
	return addr
}

func newRoot(args ...string) *cobra.Command {
	root := &cobra.Command{Use: "sdr"}
	root.PersistentFlags().BoolP("debug", "d", false, "")
	root.PersistentFlags().String("config-dir", "", "")
	root.AddCommand(servecmder.NewServeCmd())

	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(append([]string{"serve"}, args...), "--config-dir", GinkgoT().TempDir(), "--log-json"))
	return root
}

// serve runs the command until the returned cancel is called and reports
// its error on the channel.
func serve(args ...string) (context.CancelFunc, <-chan error) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	root := newRoot(args...)
	go func() {
		defer GinkgoRecover()
		done <- root.ExecuteContext(ctx)
	}()

	DeferCleanup(cancel)
	return cancel, done
}

func get(url string) func() (int, error) {
	return func() (int, error) {
		resp, err := http.Get(url)
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()
		return resp.StatusCode, nil
	}
}

var _ = Describe("NewServeCmd", func() {
	It("has dev and mcp subcommands", func() {
		cmd := servecmder.NewServeCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("dev", "mcp"))
	})

	It("has persistent --log-json and --log-file flags", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.PersistentFlags().Lookup("log-json")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("log-file")).NotTo(BeNil())
	})
})

var _ = Describe("serve dev", func() {
	It("serves the API until the context is cancelled", func() {
		addr := freeAddr()
		cancel, done := serve("dev", "--listen", addr, "--delay", "0s")

		Eventually(get("http://"+addr+"/api/health"), 5*time.Second, 50*time.Millisecond).Should(Equal(http.StatusOK))

		cancel()
		Eventually(done, 5*time.Second).Should(Receive(BeNil()))
	})

	It("appends JSON logs to --log-file", func() {
		addr := freeAddr()
		logFile := filepath.Join(GinkgoT().TempDir(), "dev.log")
		cancel, done := serve("dev", "--listen", addr, "--delay", "0s", "--log-file", logFile)

		Eventually(get("http://"+addr+"/api/health"), 5*time.Second, 50*time.Millisecond).Should(Equal(http.StatusOK))
		cancel()
		Eventually(done, 5*time.Second).Should(Receive(BeNil()))

		raw, err := os.ReadFile(logFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring(`"msg":"starting development server"`))
	})

	It("fails when the log file cannot be opened", func() {
		missing := filepath.Join(GinkgoT().TempDir(), "no", "such", "dir", "dev.log")
		err := newRoot("dev", "--listen", freeAddr(), "--log-file", missing).Execute()
		Expect(err).To(MatchError(ContainSubstring("opening log file")))
	})

	It("rejects an invalid delay", func() {
		err := newRoot("dev", "--listen", freeAddr(), "--delay", "soon").Execute()
		Expect(err).To(MatchError(ContainSubstring("invalid devserver.delay")))
	})

	It("rejects a negative delay", func() {
		err := newRoot("dev", "--listen", freeAddr(), "--delay=-1s").Execute()
		Expect(err).To(MatchError(ContainSubstring("negative")))
	})
})

var _ = Describe("serve mcp", func() {
	It("serves the MCP endpoint until the context is cancelled", func() {
		addr := freeAddr()
		cancel, done := serve("mcp",
			"--listen", addr,
			"--base-url", "http://127.0.0.1:1/api",
			"--transcript-provider", "none",
		)

		Eventually(get("http://"+addr+"/ping"), 5*time.Second, 50*time.Millisecond).Should(Equal(http.StatusOK))

		cancel()
		Eventually(done, 5*time.Second).Should(Receive(BeNil()))
	})

	It("rejects an invalid base URL", func() {
		err := newRoot("mcp", "--listen", freeAddr(), "--base-url", "ftp://sdr", "--transcript-provider", "none").Execute()
		Expect(err).To(HaveOccurred())
	})
})
