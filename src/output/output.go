// Package output formats console reporting for a provisioning run.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const sectionWidth = 61 // inner width between │ and line end

// Console gates run reporting on the verbosity toggles.
// Info is suppressed by quiet; Debug only appears with verbose.
type Console struct {
	Out     io.Writer
	Err     io.Writer
	Verbose bool
	Quiet   bool
	Color   bool
}

// NewConsole creates a console on stdout/stderr with color detection.
func NewConsole(verbose, quiet bool) *Console {
	return &Console{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Verbose: verbose,
		Quiet:   quiet,
		Color:   UseColor(),
	}
}

// Info writes a progress line unless quiet is set.
func (c *Console) Info(format string, args ...any) {
	if c.Quiet {
		return
	}
	fmt.Fprintf(c.Err, format+"\n", args...)
}

// Debug writes a diagnostic line only when verbose is set.
func (c *Console) Debug(format string, args ...any) {
	if !c.Verbose || c.Quiet {
		return
	}
	fmt.Fprintf(c.Err, format+"\n", args...)
}

// Section renders a box-drawing framed output section.
type Section struct {
	w     io.Writer
	color bool
}

// NewSection creates a section and writes its header. A non-zero
// elapsed appears right-aligned in the header.
func NewSection(w io.Writer, name string, elapsed time.Duration, color bool) *Section {
	s := &Section{w: w, color: color}
	s.writeHeader(name, elapsed)
	return s
}

// Row writes a content line inside the section frame.
func (s *Section) Row(format string, args ...any) {
	fmt.Fprintf(s.w, "    │ %s\n", fmt.Sprintf(format, args...))
}

// KeyValue writes an aligned key/value row.
func (s *Section) KeyValue(key, value string) {
	s.Row("%-14s%s", key, value)
}

// Separator writes a mid-section divider.
func (s *Section) Separator() {
	fmt.Fprintf(s.w, "    ├%s\n", strings.Repeat("─", sectionWidth))
}

// Close writes the section footer.
func (s *Section) Close() {
	fmt.Fprintf(s.w, "    └%s\n", strings.Repeat("─", sectionWidth))
}

func (s *Section) writeHeader(name string, elapsed time.Duration) {
	label := fmt.Sprintf("── %s ", name)
	suffix := "──"
	if elapsed > 0 {
		suffix = fmt.Sprintf(" %s ──", formatElapsed(elapsed))
	}
	fill := sectionWidth + 4 - len(label) - len(suffix)
	if fill < 1 {
		fill = 1
	}
	if s.color {
		fmt.Fprintf(s.w, "\n    \033[2;36m%s%s%s\033[0m\n", label, strings.Repeat("─", fill), suffix)
	} else {
		fmt.Fprintf(s.w, "\n    %s%s%s\n", label, strings.Repeat("─", fill), suffix)
	}
}

// StatusIcon returns a status icon, colored when enabled.
func StatusIcon(status string, color bool) string {
	var icon, code string
	switch status {
	case "success":
		icon, code = "✓", "\033[32m"
	case "failed":
		icon, code = "✗", "\033[31m"
	default:
		icon, code = "⊘", "\033[33m"
	}
	if !color {
		return icon
	}
	return code + icon + "\033[0m"
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal()
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// formatElapsed formats a duration for display in section headers.
func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	return fmt.Sprintf("%dm%.1fs", mins, d.Seconds()-float64(mins*60))
}
