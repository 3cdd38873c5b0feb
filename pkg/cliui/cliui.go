// Package cliui provides reusable terminal UI helpers (spinners, step indicators,
// markdown rendering) for sdr CLI commands.
package cliui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
	StepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	KeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	DimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	NameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	HashStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	RoleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	PreviewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	PromptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Step prints an animated spinner while fn runs, then replaces it with
// a ✓ or ✗ checkmark and elapsed time.
func Step(w io.Writer, msg string, fn func() error) error {
	return StepStatus(w, msg, func(func(string)) error { return fn() })
}

// StepStatus is Step with a live detail: fn may call setStatus at any time
// and the text is shown next to the spinner until the next frame.
func StepStatus(w io.Writer, msg string, fn func(setStatus func(string)) error) error {
	done := make(chan struct{})
	stopped := make(chan struct{})
	var (
		mu     sync.Mutex
		status string
	)

	setStatus := func(s string) {
		mu.Lock()
		status = s
		mu.Unlock()
	}

	go func() {
		defer close(stopped)
		frame := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			mu.Lock()
			line := fmt.Sprintf("\r\033[K  %s %s",
				spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]),
				msg,
			)
			if status != "" {
				line += " " + DimStyle.Render(status)
			}
			fmt.Fprint(w, line)
			mu.Unlock()

			select {
			case <-done:
				return
			case <-ticker.C:
				frame++
			}
		}
	}()

	start := time.Now()
	err := fn(setStatus)
	elapsed := time.Since(start)

	close(done)
	<-stopped

	fmt.Fprintf(w, "\r\033[K  %s %s %s\n",
		Mark(err),
		msg,
		StepStyle.Render(fmt.Sprintf("(%s)", FormatDuration(elapsed))),
	)

	return err
}

// Mark returns a ✓ for nil errors or ✗ for non-nil errors.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration formats a duration for display (e.g. "12ms" or "3.2s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// RenderMarkdown renders markdown content for terminal display using glamour.
// The dark or light style follows the terminal background.
func RenderMarkdown(content string) (string, error) {
	style := "light"
	if termenv.HasDarkBackground() {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}

	return rendered, nil
}

// WriteMarkdown writes content to w, rendered when w is a terminal and
// verbatim otherwise.
func WriteMarkdown(w io.Writer, content string) error {
	if !IsTerminal(w) {
		_, err := fmt.Fprintln(w, content)
		return err
	}

	rendered, err := RenderMarkdown(content)
	if err != nil {
		_, werr := fmt.Fprintln(w, content)
		return werr
	}

	_, err = fmt.Fprint(w, rendered)
	return err
}
