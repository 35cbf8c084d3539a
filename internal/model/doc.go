// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions.
//
// This package defines the domain types shared by the session controller,
// the agent client and the rendering surfaces.
//
// # Key Types
//
//   - ChatMessage: Immutable message with an opaque ID, role and content
//   - Role: Message role enumeration (user, assistant)
//   - Mode: Agent persona selection (assistant, honeypot)
//   - IntelligenceSnapshot: Identifiers harvested by the honeypot persona
//
// # Usage
//
//	msg := model.NewUserMessage("Hello!")
//	mode := model.ModeAssistant.Toggle() // ModeHoneypot
package model
