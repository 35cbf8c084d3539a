// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech coordinates spoken playback of agent replies.
//
// A Coordinator tracks at most one utterance. Speak always cancels the
// tracked utterance before starting a new one, so utterances never queue,
// and callbacks of a cancelled utterance are never delivered.
//
// The platform capability sits behind the Synthesizer interface. When it is
// missing (nil, or Available reports false) every call is a silent no-op.
//
// # Usage
//
//	coord := speech.NewCoordinator(speech.NewCommandSynthesizer(speech.Options{}))
//	coord.Speak("Hello", nil, func() { log.Println("done") })
//	coord.Stop()
package speech
