package cliui_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sdr/pkg/cliui"
)

var _ = Describe("cliui", func() {
	Describe("FormatDuration", func() {
		It("formats sub-second durations in milliseconds", func() {
			Expect(cliui.FormatDuration(12 * time.Millisecond)).To(Equal("12ms"))
		})

		It("formats longer durations in seconds", func() {
			Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
		})
	})

	Describe("Mark", func() {
		It("returns the success mark for nil", func() {
			Expect(cliui.Mark(nil)).To(Equal(cliui.SuccessMark))
		})

		It("returns the fail mark for an error", func() {
			Expect(cliui.Mark(errors.New("boom"))).To(Equal(cliui.FailMark))
		})
	})

	Describe("Step", func() {
		It("returns the error from fn and prints the message", func() {
			var buf bytes.Buffer
			err := cliui.Step(&buf, "Researching Acme", func() error {
				return errors.New("boom")
			})

			Expect(err).To(MatchError("boom"))
			Expect(buf.String()).To(ContainSubstring("Researching Acme"))
			Expect(buf.String()).To(HaveSuffix("\n"))
		})

		It("shows the latest status next to the spinner", func() {
			var buf bytes.Buffer
			err := cliui.StepStatus(&buf, "Researching", func(setStatus func(string)) error {
				setStatus("web_search")
				time.Sleep(200 * time.Millisecond)
				return nil
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("web_search"))
		})
	})

	Describe("WriteMarkdown", func() {
		It("writes plain text when the writer is not a terminal", func() {
			var buf bytes.Buffer
			Expect(cliui.WriteMarkdown(&buf, "# Acme\n\n**bold**")).To(Succeed())
			Expect(buf.String()).To(Equal("# Acme\n\n**bold**\n"))
		})

		It("is not a terminal for in-memory writers", func() {
			Expect(cliui.IsTerminal(&bytes.Buffer{})).To(BeFalse())
		})
	})
})
