// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/jeranaias/scamtrap-tui/internal/agent"
	"github.com/jeranaias/scamtrap-tui/internal/model"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// State is a snapshot of the session. Values returned by Controller.State
// share nothing with the controller.
type State struct {
	Messages         []model.ChatMessage
	Mode             model.Mode
	Pending          bool
	VoiceEnabled     bool
	LastIntelligence *model.IntelligenceSnapshot
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Messages = append([]model.ChatMessage(nil), s.Messages...)
	out.LastIntelligence = s.LastIntelligence.Clone()
	return out
}

// LastAssistant returns the most recent assistant message.
func (s State) LastAssistant() (model.ChatMessage, bool) {
	return model.LastAssistant(s.Messages)
}

// =============================================================================
// RULES
// =============================================================================

// BuildRequest derives the request body from s: the full history as
// role/content pairs, flagged as honeypot when s.Mode is honeypot.
func BuildRequest(s State) agent.ChatRequest {
	req := agent.ChatRequest{Messages: agent.HistoryFromMessages(s.Messages)}
	if s.Mode.IsHoneypot() {
		req.AgentType = model.AgentTypeHoneypot
	}
	return req
}

// SentAsHoneypot reports whether req carries the honeypot flag.
func SentAsHoneypot(req agent.ChatRequest) bool {
	return req.AgentType == model.AgentTypeHoneypot
}

// Escalate applies the one-way escalation rule: an assistant session moves
// to honeypot when the reply was structured or the request was already
// flagged honeypot. A honeypot session is never moved back.
func Escalate(current model.Mode, sentAsHoneypot, structured bool) model.Mode {
	if current == model.ModeAssistant && (structured || sentAsHoneypot) {
		return model.ModeHoneypot
	}
	return current
}
