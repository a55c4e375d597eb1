// ABOUTME: Single-line byte progress meter for the bundle download
// ABOUTME: Rewrites in place on a TTY, stays quiet when piped
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	xterm "github.com/charmbracelet/x/term"
	"golang.org/x/term"
)

// Rendering constants
const (
	barWidth  = 20 // Width of progress bar in characters
	barFilled = '━'
	barEmpty  = '░'
)

// DownloadMeter renders download progress as a single self-rewriting
// line. On non-TTY writers it renders nothing, so piped output stays
// clean.
type DownloadMeter struct {
	w        io.Writer
	label    string
	rendered bool
}

// NewDownloadMeter creates a meter that writes to w with the given
// label, usually the artifact filename.
func NewDownloadMeter(w io.Writer, label string) *DownloadMeter {
	return &DownloadMeter{w: w, label: label}
}

// Update redraws the meter line. total is the size the server announced,
// -1 when unknown; with an unknown total only the byte count renders.
func (m *DownloadMeter) Update(written, total int64) {
	if !isTerminal(m.w) {
		return
	}

	fmt.Fprintf(m.w, "\r\033[K%s", clampLine(m.line(written, total), terminalWidth()))
	m.rendered = true
}

// Finish clears the meter line so the completion message can replace it.
func (m *DownloadMeter) Finish() {
	if m.rendered {
		fmt.Fprint(m.w, "\r\033[K")
		m.rendered = false
	}
}

func (m *DownloadMeter) line(written, total int64) string {
	if total <= 0 {
		return fmt.Sprintf("%s %s", m.label, formatSize(written))
	}
	bar := renderBar(written, total, barWidth)
	return fmt.Sprintf("%s %s %s/%s", m.label, bar, formatSize(written), formatSize(total))
}

// renderBar renders a progress bar of the given width
func renderBar(written, total int64, width int) string {
	if total <= 0 {
		return strings.Repeat(string(barEmpty), width)
	}

	filled := int(written * int64(width) / total)
	if filled > width {
		filled = width
	}

	return strings.Repeat(string(barFilled), filled) + strings.Repeat(string(barEmpty), width-filled)
}

// formatSize formats a byte count as a human-readable string
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// clampLine truncates a line to the terminal width
func clampLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func terminalWidth() int {
	width, _, err := xterm.GetSize(os.Stdout.Fd())
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
