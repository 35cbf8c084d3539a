// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdVault
	CmdConfig
	CmdVersion
	CmdHelp
	CmdUnknown
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdChat:
		return "chat"
	case CmdVault:
		return "vault"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Plain      bool   // line-oriented REPL instead of the TUI
	Honeypot   bool   // start the session in honeypot mode
	NoVoice    bool   // start with speech disabled
	JSON       bool   // machine-readable output
	ConfigPath string // explicit config file
	BackendURL string // overrides backend.url

	// Command-specific
	Subcommand string
	Raw        []string

	// Unknown holds the unrecognized command name for CmdUnknown.
	Unknown string
}

const usageText = `scamtrap - terminal console for the scam honeypot agent

Usage:
  scamtrap [flags]                 Start the chat TUI (default)
  scamtrap chat [flags]            Line-oriented chat REPL
  scamtrap vault list              List recorded intelligence snapshots
      --session ID                 Only one session
      --limit N                    At most N snapshots (default 50)
  scamtrap vault search TERM       Find harvested identifiers
  scamtrap vault stats             Vault summary
  scamtrap config show             Print the effective configuration
  scamtrap config get KEY          Print one value (e.g. backend.url)
  scamtrap config set KEY VALUE    Change and save one value
  scamtrap config path             Print the config file location
  scamtrap version                 Version information
  scamtrap help                    This help

Flags:
  --plain                          Use the REPL even on a terminal
  --honeypot                       Start with the honeypot persona armed
  --no-voice                       Start with speech output disabled
  --backend URL                    Agent backend base URL
  --config PATH                    Config file (default ~/.scamtrap/config.toml)
  --json                           JSON output for vault and config

REPL commands:
  /honeypot          Toggle the honeypot persona
  /voice on|off      Enable or disable speech output
  /replay            Speak the last reply again
  /intel             Show the last intelligence snapshot
  /export [md|json]  Export the transcript
  /copy              Copy the last reply to the clipboard
  /quit              Exit

Environment:
  SCAMTRAP_BACKEND_URL, SCAMTRAP_VOICE, SCAMTRAP_TTS_COMMAND,
  SCAMTRAP_VAULT, SCAMTRAP_LOG, SCAMTRAP_HONEYPOT
`

// PrintUsage writes the usage text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// PrintVersion writes version information to w.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "scamtrap %s\n", Version)
	fmt.Fprintf(w, "  commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  built:  %s\n", BuildDate)
	fmt.Fprintf(w, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses argv (without the program name) into a command and args.
// Global flags may appear before or after the command.
func Parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		if args.Plain {
			return CmdChat, args
		}
		return CmdTUI, args
	}

	name := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining
	if len(remaining) > 0 {
		args.Subcommand = strings.ToLower(remaining[0])
	}

	switch name {
	case "tui":
		return CmdTUI, args
	case "chat", "repl":
		return CmdChat, args
	case "vault", "intel":
		return CmdVault, args
	case "config", "cfg":
		return CmdConfig, args
	case "version", "--version", "-V":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	default:
		args.Unknown = name
		return CmdUnknown, args
	}
}

// parseGlobalFlags strips global flags from argv and returns the rest.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		name, value, hasValue := strings.Cut(arg, "=")

		takeValue := func() string {
			if hasValue {
				return value
			}
			if i+1 < len(argv) {
				i++
				return argv[i]
			}
			return ""
		}

		switch name {
		case "--plain":
			args.Plain = true
		case "--honeypot":
			args.Honeypot = true
		case "--no-voice":
			args.NoVoice = true
		case "--json":
			args.JSON = true
		case "--config", "-c":
			args.ConfigPath = takeValue()
		case "--backend":
			args.BackendURL = takeValue()
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}

// UnknownCommandMessage returns the error text for an unknown command,
// with a suggestion when one is close.
func UnknownCommandMessage(name string) string {
	msg := fmt.Sprintf("unknown command: %s", name)
	if s := SuggestCommand(name); s != "" {
		msg += fmt.Sprintf("\nDid you mean: scamtrap %s?", s)
	}
	return msg + "\nRun 'scamtrap help' for usage."
}
