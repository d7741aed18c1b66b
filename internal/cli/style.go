// Package cli implements the kai command-line interface.
// This file contains terminal styling shared across commands.
package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/kaihub/kai/internal/entity"
	"github.com/kaihub/kai/internal/progress"
)

// Styles contains the visual styling for CLI output.
type Styles struct {
	Header    lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Subtle    lipgloss.Style
	Badge     lipgloss.Style
	BadgeDone lipgloss.Style
	BadgeBusy lipgloss.Style
}

// DefaultStyles returns the default styling.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		BadgeDone: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")),
		BadgeBusy: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
	}
}

var styles = DefaultStyles()

// colorEnabled reports whether styled output should be used.
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// stepBadge renders a step status the way the status map classifies it.
func stepBadge(status string) string {
	label := progress.StatusDisplayName(status)
	if !colorEnabled() {
		return label
	}
	switch progress.StatusBadgeVariant(status) {
	case progress.BadgeOutline:
		return styles.BadgeDone.Render(label)
	case progress.BadgeDefault:
		return styles.BadgeBusy.Render(label)
	default:
		return styles.Badge.Render(label)
	}
}

// sandboxBadge renders a sandbox status.
func sandboxBadge(status string) string {
	if !colorEnabled() {
		return status
	}
	switch status {
	case entity.SandboxStatusRunning:
		return styles.Success.Render(status)
	case entity.SandboxStatusError:
		return styles.Error.Render(status)
	default:
		return styles.Subtle.Render(status)
	}
}

// termWidth returns the terminal width, or a sane default off-terminal.
func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

// progressBar renders a fixed-width percentage bar.
func progressBar(pct, width int) string {
	if width < 4 {
		width = 4
	}
	filled := pct * width / 100
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if colorEnabled() {
		return styles.Success.Render(bar)
	}
	return bar
}
