// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea chat view for scamtrap.

The view renders whatever session state the controller publishes and turns
key presses into controller operations. It never changes session state
itself.

# Data Flow

Every controller operation runs inside a tea.Cmd so the Update loop never
blocks on the network or on speech:

	enter  -> Send(ctx, text)      -> sendResultMsg
	ctrl+t -> ToggleHoneypot()
	ctrl+v -> SetVoiceEnabled(!on)
	ctrl+r -> ReplayLast()         -> replayResultMsg

State changes come back as StateMsg values. Wire them up with Forward:

	p := tea.NewProgram(m, tea.WithAltScreen())
	ctrl.Subscribe(chat.Forward(p))

# Layout

	+----------------------------------------------+
	| SCAMTRAP  [ASSISTANT-V2]  voice on  ...      |  header
	+------------------------------+---------------+
	| transcript (viewport)        | intelligence  |
	|                              | panel         |
	+------------------------------+---------------+
	| > input / spinner                            |
	| status bar                                   |
	| key hints                                    |
	+----------------------------------------------+

The intelligence panel is dropped below 60 columns; the status bar then
carries the identifier count instead.
*/
package chat
