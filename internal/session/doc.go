// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives one chat session against the agent service.
//
// A Controller owns the append-only message history, the assistant/honeypot
// mode, the pending flag and the sticky intelligence snapshot. It sends the
// full history on every request, turns every failure into a single
// diagnostic assistant message, escalates to honeypot mode when the service
// answers with a structured reply, and hands each reply to the speech
// coordinator.
//
// # Key Types
//
//   - Controller: session state machine
//   - State: deep-copied view of the session for rendering surfaces
//   - Agent, Speaker, IntelligenceSink: collaborators
//
// # Usage
//
//	ctrl := session.NewController(client, coord, session.DefaultConfig())
//	ctrl.Subscribe(func(s session.State) { render(s) })
//	ctrl.Send(ctx, "hello")
//	ctrl.ToggleHoneypot()
package session
