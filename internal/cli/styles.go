// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/scamtrap-tui/internal/model"
	"github.com/jeranaias/scamtrap-tui/internal/ui/styles"
)

// InitColors configures the lipgloss color profile for plain output. main
// calls it before any non-TUI surface writes to the terminal.
func InitColors() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Cyan)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(18)

	// ValueStyle is used for regular values
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// SuccessStyle is used for confirmations
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	// ErrorStyle is used for failures
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// WarningStyle is used for escalation notices
	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true)

	// DimStyle is used for hints and timestamps
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// IntelStyle is used for harvested identifiers
	IntelStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// AgentStyle labels agent replies
	AgentStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)
)

// promptFor returns the REPL prompt for mode. liner cannot measure ANSI
// sequences, so the prompt stays plain.
func promptFor(mode model.Mode) string {
	return "[" + mode.EngineLabel() + "] > "
}

// RenderSeparator renders a horizontal rule of width w.
func RenderSeparator(w int) string {
	return DimStyle.Render(strings.Repeat("-", max(1, w)))
}

// RenderLabel renders a fixed-width label.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}
