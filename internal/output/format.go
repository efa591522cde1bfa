// Package output provides terminal output formatting utilities for the
// ripple CLI. This package is designed to have minimal dependencies to
// avoid import cycles.
package output

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// Capabilities describes what the attached terminal supports.
type Capabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// DetectCapabilities detects terminal features for stdout.
// Checks: stdout isatty, NO_COLOR env, RIPPLE_ASCII env, terminal width.
// Used to select appropriate symbols (Unicode vs ASCII) and gate the spinner.
func DetectCapabilities() Capabilities {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("RIPPLE_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	return Capabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// Symbols holds the status glyphs and spinner charset for a terminal.
// Unicode: ✓/✗ with braille spinner (set 14). ASCII: [OK]/[FAIL] with
// |/-\ spinner (set 9). Graceful degradation keeps output readable in any
// terminal.
type Symbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int
}

// SelectSymbols returns the appropriate symbol set based on capabilities.
func SelectSymbols(caps Capabilities) Symbols {
	if caps.SupportsUnicode {
		return Symbols{
			Checkmark:  "✓",
			Failure:    "✗",
			SpinnerSet: 14, // Unicode dots: ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
		}
	}

	return Symbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		SpinnerSet: 9, // ASCII: | / - \
	}
}

// SeverityColor returns a sprint function that colors a release-kind word:
// major red, minor yellow, patch green, none faint. Falls back to plain
// text when the terminal does not support color.
func SeverityColor(kind string, caps Capabilities) func(a ...interface{}) string {
	if !caps.SupportsColor {
		return func(a ...interface{}) string {
			if len(a) == 1 {
				if s, ok := a[0].(string); ok {
					return s
				}
			}
			return color.New().Sprint(a...)
		}
	}

	switch kind {
	case "major":
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case "minor":
		return color.New(color.FgYellow).SprintFunc()
	case "patch":
		return color.New(color.FgGreen).SprintFunc()
	default:
		return color.New(color.Faint).SprintFunc()
	}
}

// ScanSpinner shows progress while commit history is being scanned. It is a
// no-op on non-TTY output so piped runs stay clean.
type ScanSpinner struct {
	s *spinner.Spinner
}

// NewScanSpinner creates a spinner with the given message, writing to w.
// Returns a no-op spinner when the terminal has no TTY.
func NewScanSpinner(w io.Writer, message string, caps Capabilities) *ScanSpinner {
	if !caps.IsTTY {
		return &ScanSpinner{}
	}

	syms := SelectSymbols(caps)
	s := spinner.New(spinner.CharSets[syms.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	return &ScanSpinner{s: s}
}

// Start begins the spinner animation.
func (sp *ScanSpinner) Start() {
	if sp.s != nil {
		sp.s.Start()
	}
}

// Stop halts the spinner animation and clears its line.
func (sp *ScanSpinner) Stop() {
	if sp.s != nil {
		sp.s.Stop()
	}
}
