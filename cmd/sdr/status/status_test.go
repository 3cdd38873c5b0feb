package statuscmder_test

import (
	"bytes"
	"net"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	statuscmder "github.com/papercomputeco/sdr/cmd/sdr/status"
	"github.com/papercomputeco/sdr/devserver"
	"github.com/papercomputeco/sdr/pkg/dotdir"
)

func startServer() string {
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

func execute(configDir string, args ...string) (string, error) {
	root := &cobra.Command{Use: "sdr"}
	root.PersistentFlags().BoolP("debug", "d", false, "")
	root.PersistentFlags().String("config-dir", "", "")
	root.AddCommand(statuscmder.NewStatusCmd())

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"status", "--config-dir", configDir}, args...))

	err := root.Execute()
	return out.String(), err
}

var _ = Describe("NewStatusCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := statuscmder.NewStatusCmd()
		Expect(cmd.Use).To(Equal("status"))
	})
})

var _ = Describe("Status command execution", func() {
	var configDir string

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
	})

	It("reports a healthy server and no saved session", func() {
		out, err := execute(configDir, "--base-url", startServer())
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("up"))
		Expect(out).To(ContainSubstring("No saved session"))
		Expect(out).To(ContainSubstring("transcripts.db"))
	})

	It("reports an unreachable server without failing", func() {
		out, err := execute(configDir, "--base-url", "http://127.0.0.1:1/api")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("checking health"))
	})

	It("previews the saved session", func() {
		Expect(dotdir.NewManager().SaveSession(&dotdir.SessionState{
			SessionID: "acme-outreach",
			Messages: []dotdir.SessionMessage{
				{Role: "user", Content: "research Acme"},
				{Role: "assistant", Content: "Acme makes\nanvils"},
			},
		}, configDir)).To(Succeed())

		out, err := execute(configDir, "--base-url", "http://127.0.0.1:1/api")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("acme-outreach"))
		Expect(out).To(ContainSubstring("[user]"))
		Expect(out).To(ContainSubstring("Acme makes anvils"))
	})
})
