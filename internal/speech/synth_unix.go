// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows

package speech

import "strconv"

// candidateCommands lists TTS programs in order of preference on Unix.
func candidateCommands() []string {
	return []string{"espeak-ng", "espeak", "spd-say", "say"}
}

// commandArgs builds the argument list for engine. When useStdin is true the
// text is written to the program's stdin instead of the command line.
func commandArgs(engine string, opts Options, text string) (args []string, useStdin bool) {
	switch engine {
	case "espeak", "espeak-ng":
		if opts.Rate > 0 {
			args = append(args, "-s", strconv.Itoa(opts.Rate))
		}
		if opts.Voice != "" {
			args = append(args, "-v", opts.Voice)
		}
		return append(args, "--stdin"), true
	case "say":
		if opts.Rate > 0 {
			args = append(args, "-r", strconv.Itoa(opts.Rate))
		}
		if opts.Voice != "" {
			args = append(args, "-v", opts.Voice)
		}
		return append(args, "-f", "-"), true
	case "spd-say":
		args = append(args, "--wait")
		if opts.Voice != "" {
			args = append(args, "-y", opts.Voice)
		}
		return append(args, "--", text), false
	default:
		// Unknown programs get the text as their only argument
		return []string{text}, false
	}
}
