// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "Hello", msg.Content)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())
	assert.False(t, msg.IsAssistant())
}

func TestNewMessage_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := NewAssistantMessage("x")
		require.False(t, seen[msg.ID], "duplicate id %s", msg.ID)
		seen[msg.ID] = true
	}
}

func TestChatMessage_Preview(t *testing.T) {
	tests := []struct {
		content string
		max     int
		want    string
	}{
		{"short", 10, "short"},
		{"hello world", 8, "hello..."},
		{"नमस्ते दुनिया", 5, "नम..."},
		{"abcdef", 2, "ab"},
	}

	for _, tc := range tests {
		msg := NewUserMessage(tc.content)
		assert.Equal(t, tc.want, msg.Preview(tc.max), "Preview(%q, %d)", tc.content, tc.max)
	}
}

func TestLastAssistant(t *testing.T) {
	_, ok := LastAssistant(nil)
	assert.False(t, ok)

	msgs := []ChatMessage{
		NewUserMessage("q1"),
		NewAssistantMessage("a1"),
		NewUserMessage("q2"),
		NewAssistantMessage("a2"),
		NewUserMessage("q3"),
	}
	last, ok := LastAssistant(msgs)
	require.True(t, ok)
	assert.Equal(t, "a2", last.Content)

	_, ok = LastAssistant(msgs[:1])
	assert.False(t, ok)
}

// =============================================================================
// MODE TESTS
// =============================================================================

func TestMode_Toggle(t *testing.T) {
	assert.Equal(t, ModeHoneypot, ModeAssistant.Toggle())
	assert.Equal(t, ModeAssistant, ModeHoneypot.Toggle())
	assert.True(t, ModeHoneypot.IsHoneypot())
	assert.False(t, ModeAssistant.IsHoneypot())
}

func TestMode_Labels(t *testing.T) {
	assert.Equal(t, "assistant", ModeAssistant.String())
	assert.Equal(t, "honeypot", ModeHoneypot.String())
	assert.Equal(t, "ASSISTANT-V2", ModeAssistant.EngineLabel())
	assert.Equal(t, "HONEYPOT-V1", ModeHoneypot.EngineLabel())
	assert.Equal(t, "ARM HONEYPOT", ModeAssistant.ToggleLabel())
	assert.Equal(t, "TERMINATE HONEYPOT", ModeHoneypot.ToggleLabel())
}

// =============================================================================
// SNAPSHOT TESTS
// =============================================================================

func TestIntelligenceSnapshot_Clone(t *testing.T) {
	var nilSnap *IntelligenceSnapshot
	assert.Nil(t, nilSnap.Clone())
	assert.True(t, nilSnap.IsEmpty())

	orig := &IntelligenceSnapshot{
		UPIIDs:       []string{"x@ybl"},
		PhoneNumbers: []string{"+919876543210"},
	}
	clone := orig.Clone()
	require.Equal(t, orig, clone)

	clone.UPIIDs[0] = "changed"
	assert.Equal(t, "x@ybl", orig.UPIIDs[0], "clone must not share backing arrays")
}

func TestIntelligenceSnapshot_Categories(t *testing.T) {
	snap := &IntelligenceSnapshot{
		UPIIDs:        []string{"a@upi", "b@upi"},
		IFSCCodes:     []string{"SBIN0001234"},
		PhishingLinks: []string{"http://bad.example"},
	}

	cats := snap.Categories()
	require.Len(t, cats, 6)
	assert.Equal(t, "upi_ids", cats[0].Key)
	assert.Equal(t, "phishing_links", cats[5].Key)
	assert.Equal(t, 4, snap.Count())
	assert.False(t, snap.IsEmpty())
}
