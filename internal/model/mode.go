// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Mode selects the agent persona a session talks to.
type Mode int

const (
	// ModeAssistant is the general purpose persona every session starts in.
	ModeAssistant Mode = iota
	// ModeHoneypot engages a suspected scammer and harvests identifiers.
	ModeHoneypot
)

// AgentTypeHoneypot is the wire value of the agent_type request field.
const AgentTypeHoneypot = "honeypot"

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeHoneypot:
		return "honeypot"
	default:
		return "assistant"
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeHoneypot {
		return ModeAssistant
	}
	return ModeHoneypot
}

// IsHoneypot reports whether m is the honeypot persona.
func (m Mode) IsHoneypot() bool {
	return m == ModeHoneypot
}

// EngineLabel is the label shown for the active neural engine.
func (m Mode) EngineLabel() string {
	if m == ModeHoneypot {
		return "HONEYPOT-V1"
	}
	return "ASSISTANT-V2"
}

// ToggleLabel is the label of the operator control that flips the mode.
func (m Mode) ToggleLabel() string {
	if m == ModeHoneypot {
		return "TERMINATE HONEYPOT"
	}
	return "ARM HONEYPOT"
}
