package sdrcmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	sdrcmder "github.com/papercomputeco/sdr/cmd/sdr"
)

var _ = Describe("NewSDRCmd", func() {
	It("registers every command", func() {
		cmd := sdrcmder.NewSDRCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements(
			"chat", "research", "history", "clear", "status",
			"transcripts", "config", "serve", "version",
		))
	})

	It("has the global flags", func() {
		cmd := sdrcmder.NewSDRCmd()
		Expect(cmd.PersistentFlags().Lookup("debug").Shorthand).To(Equal("d"))
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})

	It("prints the version", func() {
		cmd := sdrcmder.NewSDRCmd()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{"version"})

		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Version: dev"))
	})

	It("reads config from --config-dir", func() {
		dir := GinkgoT().TempDir()

		cmd := sdrcmder.NewSDRCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"config", "set", "client.timeout", "30s", "--config-dir", dir})
		Expect(cmd.Execute()).To(Succeed())

		cmd = sdrcmder.NewSDRCmd()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{"config", "get", "client.timeout", "--config-dir", dir})
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("30s"))
	})
})
