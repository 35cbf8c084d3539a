// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/scamtrap-tui/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// StateMsg carries a controller state snapshot into the Update loop.
type StateMsg struct {
	State session.State
}

// sendResultMsg reports whether the controller accepted a Send.
type sendResultMsg struct {
	Text     string
	Accepted bool
}

// replayResultMsg reports whether there was a reply to replay.
type replayResultMsg struct {
	OK bool
}

// copyResultMsg reports the outcome of a clipboard copy.
type copyResultMsg struct {
	Chars int
	Err   error
}

// exportResultMsg reports the outcome of a transcript export.
type exportResultMsg struct {
	Path string
	Err  error
}

// Forward returns a subscriber that delivers controller state to p.
// Program.Send blocks until the Update loop takes the message, so
// controller operations must never run inside Update itself.
func Forward(p *tea.Program) func(session.State) {
	return func(s session.State) {
		p.Send(StateMsg{State: s})
	}
}
