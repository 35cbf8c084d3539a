// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/scamtrap-tui/internal/model"
)

// Theme names accepted by NewTheme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header          lipgloss.Style
	HeaderTitle     lipgloss.Style
	HeaderSubtitle  lipgloss.Style
	EngineAssistant lipgloss.Style
	EngineHoneypot  lipgloss.Style
	VoiceOn         lipgloss.Style
	VoiceOff        lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserBubble     lipgloss.Style
	AgentBubble    lipgloss.Style
	FailureMessage lipgloss.Style
	Timestamp      lipgloss.Style
	EmptyHint      lipgloss.Style

	// ==========================================================================
	// INTELLIGENCE PANEL STYLES
	// ==========================================================================

	Sidebar      lipgloss.Style
	SidebarTitle lipgloss.Style
	IntelLabel   lipgloss.Style
	IntelValue   lipgloss.Style
	Standby      lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPending   lipgloss.Style
	Spinner        lipgloss.Style
	StatusBar      lipgloss.Style
	StatusNotice   lipgloss.Style
	StatusError    lipgloss.Style
	Hint           lipgloss.Style
	HintKey        lipgloss.Style
}

// NewTheme creates a theme. name is "dark", "light" or "auto"; anything
// else is treated as "auto", which asks the terminal for its background.
func NewTheme(name string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch name {
	case ThemeDark:
		isDark = true
	case ThemeLight:
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.EngineAssistant = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(CyanDeep).
		Padding(0, 1)

	t.EngineHoneypot = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(RoseDeep).
		Padding(0, 1)

	t.VoiceOn = lipgloss.NewStyle().Foreground(Emerald)
	t.VoiceOff = lipgloss.NewStyle().Foreground(TextMuted)

	// Transcript
	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(UserBubbleBorder)

	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(UserBubbleBorder).
		PaddingLeft(1)

	t.AgentBubble = lipgloss.NewStyle().
		Foreground(AgentBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(AgentBubbleBorder).
		PaddingLeft(1)

	t.FailureMessage = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)

	t.EmptyHint = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true).
		Padding(1, 2)

	// Intelligence panel
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose).
		MarginBottom(1)

	t.IntelLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.IntelValue = lipgloss.NewStyle().Foreground(Amber)

	t.Standby = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Input and status
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.InputPending = t.InputContainer.
		BorderForeground(Overlay)

	t.Spinner = lipgloss.NewStyle().Foreground(Cyan)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.StatusNotice = lipgloss.NewStyle().Foreground(Emerald)
	t.StatusError = lipgloss.NewStyle().Foreground(Rose)

	t.Hint = lipgloss.NewStyle().Foreground(TextMuted)
	t.HintKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)
}

// EngineBadge returns the badge style for mode.
func (t *Theme) EngineBadge(mode model.Mode) lipgloss.Style {
	if mode.IsHoneypot() {
		return t.EngineHoneypot
	}
	return t.EngineAssistant
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// SidebarWidth returns the intelligence panel width for the layout, or 0
// when the panel should stack below the transcript.
func (t *Theme) SidebarWidth() int {
	switch t.GetLayoutMode() {
	case LayoutWide:
		return 36
	case LayoutMedium:
		return 28
	default:
		return 0
	}
}
