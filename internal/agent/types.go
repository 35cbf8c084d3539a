// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"encoding/json"

	"github.com/jeranaias/scamtrap-tui/internal/model"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Message is one history entry as sent on the wire (no internal IDs).
type Message struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // The message content
}

// ChatRequest is the request body for the /chat endpoint.
type ChatRequest struct {
	Messages  []Message `json:"messages"`             // Full conversation history
	AgentType string    `json:"agent_type,omitempty"` // "honeypot" or absent
}

// HistoryFromMessages strips transcript messages down to role and content.
func HistoryFromMessages(msgs []model.ChatMessage) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Message{Role: m.Role.String(), Content: m.Content})
	}
	return out
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// StructuredReply is the JSON body of a structured response.
// AgentReply is kept raw so a present but non-string value can be rejected.
type StructuredReply struct {
	AgentReply            json.RawMessage             `json:"agent_reply,omitempty"`
	ExtractedIntelligence *model.IntelligenceSnapshot `json:"extracted_intelligence,omitempty"`
	Error                 string                      `json:"error,omitempty"`
}

// Reply is the normalized output of Decode.
type Reply struct {
	// Text is the assistant message content.
	Text string

	// Intelligence is set only when a structured response carried a snapshot.
	Intelligence *model.IntelligenceSnapshot

	// Structured is true when the body was a single JSON object.
	Structured bool
}

// PlaceholderReply is used when a structured response has no reply text.
const PlaceholderReply = "..."
