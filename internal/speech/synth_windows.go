// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows

package speech

import (
	"fmt"
	"strings"
)

// candidateCommands lists TTS hosts in order of preference on Windows.
func candidateCommands() []string {
	return []string{"powershell", "pwsh"}
}

// commandArgs builds the argument list for engine. PowerShell reads the
// text from stdin and speaks it with System.Speech.
func commandArgs(engine string, opts Options, text string) (args []string, useStdin bool) {
	switch engine {
	case "powershell", "pwsh":
		var script strings.Builder
		script.WriteString("Add-Type -AssemblyName System.Speech; ")
		script.WriteString("$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; ")
		if opts.Voice != "" {
			script.WriteString(fmt.Sprintf("$s.SelectVoice('%s'); ", strings.ReplaceAll(opts.Voice, "'", "''")))
		}
		if opts.Rate > 0 {
			// System.Speech rate is -10..10 around ~180 wpm
			rate := (opts.Rate - 180) / 20
			if rate < -10 {
				rate = -10
			}
			if rate > 10 {
				rate = 10
			}
			script.WriteString(fmt.Sprintf("$s.Rate = %d; ", rate))
		}
		script.WriteString("$s.Speak([Console]::In.ReadToEnd())")
		return []string{"-NoProfile", "-NonInteractive", "-Command", script.String()}, true
	default:
		return []string{text}, false
	}
}
