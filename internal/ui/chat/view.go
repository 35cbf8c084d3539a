// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/scamtrap-tui/internal/model"
	"github.com/jeranaias/scamtrap-tui/internal/session"
	"github.com/jeranaias/scamtrap-tui/internal/util"
)

// Empty-transcript hints, one per mode.
const (
	hintAssistant = "System Initialized. Console ready for general inquiries."
	hintHoneypot  = "Standby: Awaiting scam-signature detection. Intelligence extraction protocols armed."
)

// Fixed heights of the chrome around the transcript.
const (
	headerHeight = 2 // title line + bottom border
	inputHeight  = 3 // rounded border around one line
	footerHeight = 2 // status bar + key hints
)

// =============================================================================
// LAYOUT
// =============================================================================

// transcriptSize returns the viewport dimensions for the current window.
func (m Model) transcriptSize() (int, int) {
	w := m.width - m.theme.SidebarWidth()
	h := m.height - headerHeight - inputHeight - footerHeight
	return max(20, w), max(3, h)
}

// refreshTranscript re-renders the transcript into the viewport and keeps
// the newest message in view.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript(m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m Model) render() string {
	body := m.viewport.View()
	if sw := m.theme.SidebarWidth(); sw > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body,
			m.renderSidebar(sw, m.viewport.Height))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderInput(),
		m.renderStatusBar(),
		m.renderHints(),
	)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	t := m.theme
	mode := m.state.Mode

	voice := t.VoiceOff.Render("voice off")
	if m.state.VoiceEnabled {
		voice = t.VoiceOn.Render("voice on")
	}

	left := strings.Join([]string{
		t.HeaderTitle.Render("SCAMTRAP"),
		t.EngineBadge(mode).Render(mode.EngineLabel()),
		voice,
	}, "  ")
	right := t.HeaderSubtitle.Render("[C-t] " + mode.ToggleLabel())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return t.Header.Width(m.width).Render(left)
	}
	return t.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func (m Model) renderTranscript(width int) string {
	t := m.theme
	if len(m.state.Messages) == 0 {
		hint := hintAssistant
		if m.state.Mode.IsHoneypot() {
			hint = hintHoneypot
		}
		return t.EmptyHint.Width(width).Render(hint)
	}

	var b strings.Builder
	for i, msg := range m.state.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderMessage(msg, width))
	}
	return b.String()
}

func (m Model) renderMessage(msg model.ChatMessage, width int) string {
	t := m.theme
	stamp := t.Timestamp.Render(msg.Timestamp.Format("15:04:05"))
	bodyWidth := max(10, width-2)

	if !msg.IsAssistant() {
		label := t.UserLabel.Render(msg.Role.DisplayName()) + " " + stamp
		return label + "\n" + t.UserBubble.Width(bodyWidth).Render(msg.Content)
	}

	label := t.AssistantLabel.Render(msg.Role.DisplayName()) + " " + stamp
	if msg.Content == session.FailureText {
		return label + "\n" + t.FailureMessage.Render(msg.Content)
	}
	return label + "\n" + t.AgentBubble.Width(bodyWidth).Render(m.renderMarkdown(msg.Content))
}

// renderMarkdown renders assistant content with glamour, falling back to
// the raw text.
func (m Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// INTELLIGENCE PANEL
// =============================================================================

// renderSidebar renders the intelligence panel. Outside honeypot mode it
// shows the standby notice even when a snapshot is retained.
func (m Model) renderSidebar(width, height int) string {
	t := m.theme
	inner := max(8, width-4)

	var b strings.Builder
	b.WriteString(t.SidebarTitle.Render("VAULT INTELLIGENCE"))
	b.WriteString("\n")

	if !m.state.Mode.IsHoneypot() {
		b.WriteString(t.Standby.Render("Honeypot Inactive\nExtraction Standby"))
	} else {
		b.WriteString(renderIntel(t.IntelLabel.Render, t.IntelValue.Render, t.Standby.Render,
			m.state.LastIntelligence, inner))
	}

	return t.Sidebar.
		Width(width - 2).
		Height(max(1, height-2)).
		MaxHeight(height).
		Render(b.String())
}

// renderIntel lists every category with its values truncated to width.
func renderIntel(label, value, empty func(...string) string, snap *model.IntelligenceSnapshot, width int) string {
	if snap == nil {
		snap = &model.IntelligenceSnapshot{}
	}

	var lines []string
	for _, cat := range snap.Categories() {
		lines = append(lines, label(fmt.Sprintf("%s [%d]", cat.Label, len(cat.Values))))
		if len(cat.Values) == 0 {
			lines = append(lines, empty("  none captured"))
			continue
		}
		for _, v := range cat.Values {
			lines = append(lines, value(util.TruncateWidth("> "+v, width)))
		}
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// INPUT AND FOOTER
// =============================================================================

func (m Model) renderInput() string {
	t := m.theme
	w := max(10, m.width-2)
	if m.state.Pending {
		return t.InputPending.Width(w).Render(m.spinner.View() + " Awaiting response...")
	}
	return t.InputContainer.Width(w).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	t := m.theme
	parts := []string{
		util.TruncateRunesNoEllipsis(m.ctrl.SessionID(), 13),
		fmt.Sprintf("%d msgs", len(m.state.Messages)),
	}
	if m.theme.SidebarWidth() == 0 && m.state.Mode.IsHoneypot() {
		parts = append(parts, fmt.Sprintf("%d intel", m.state.LastIntelligence.Count()))
	}
	line := strings.Join(parts, " | ")

	if m.status != "" {
		style := t.StatusNotice
		if m.statusErr {
			style = t.StatusError
		}
		line += "  " + style.Render(m.status)
	}
	return t.StatusBar.Width(m.width).MaxHeight(1).Render(line)
}

func (m Model) renderHints() string {
	t := m.theme
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, t.HintKey.Render(h.Key)+" "+t.Hint.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
