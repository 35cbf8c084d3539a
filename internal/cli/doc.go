// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI surfaces of
// scamtrap.
//
// # Commands
//
//   - tui (default): Bubble Tea chat view, started by main
//   - chat: line-oriented REPL over the same session controller
//   - vault: list, search and summarize recorded intelligence
//   - config: show, get, set and locate configuration
//   - version, help
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	switch cmd {
//	case cli.CmdChat:
//	    repl := cli.NewREPL(ctrl, cli.REPLOptions{})
//	    return repl.Run(ctx)
//	case cli.CmdVault:
//	    return cli.RunVault(ctx, os.Stdout, v, args)
//	}
//
// Commands that print data accept --json and emit a JSONResponse envelope.
package cli
