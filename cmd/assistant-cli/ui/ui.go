// Package ui provides terminal output helpers for the assistant CLI.
package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// UI renders CLI output, optionally without color.
type UI struct {
	success *color.Color
	warn    *color.Color
	fail    *color.Color
	info    *color.Color
}

// New creates a UI. noColor disables ANSI colors process-wide.
func New(noColor bool) *UI {
	if noColor {
		color.NoColor = true
	}
	return &UI{
		success: color.New(color.FgGreen, color.Bold),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed, color.Bold),
		info:    color.New(color.FgCyan),
	}
}

// Success prints a green message.
func (u *UI) Success(format string, args ...interface{}) {
	u.success.Fprintf(os.Stdout, "✓ "+format+"\n", args...)
}

// Warn prints a yellow message.
func (u *UI) Warn(format string, args ...interface{}) {
	u.warn.Fprintf(os.Stdout, "! "+format+"\n", args...)
}

// Error prints a red message to stderr.
func (u *UI) Error(format string, args ...interface{}) {
	u.fail.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// Info prints a cyan message.
func (u *UI) Info(format string, args ...interface{}) {
	u.info.Fprintf(os.Stdout, format+"\n", args...)
}

// Plain prints an uncolored message.
func (u *UI) Plain(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}

// Spinner starts a spinner with the given message. Callers must Stop it.
func (u *UI) Spinner(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	return s
}

// ProgressBar creates a determinate progress bar.
func (u *UI) ProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)
}
