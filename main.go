// scamtrap - an operator console for a scam-baiting conversational agent.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/scamtrap-tui/internal/agent"
	"github.com/jeranaias/scamtrap-tui/internal/cli"
	"github.com/jeranaias/scamtrap-tui/internal/config"
	"github.com/jeranaias/scamtrap-tui/internal/export"
	"github.com/jeranaias/scamtrap-tui/internal/model"
	"github.com/jeranaias/scamtrap-tui/internal/session"
	"github.com/jeranaias/scamtrap-tui/internal/speech"
	"github.com/jeranaias/scamtrap-tui/internal/ui/chat"
	"github.com/jeranaias/scamtrap-tui/internal/ui/styles"
	"github.com/jeranaias/scamtrap-tui/internal/vault"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	switch cmd {
	case cli.CmdTUI, cli.CmdChat:
		exitOnError("scamtrap", run(cmd, args), false)

	case cli.CmdVault:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		cfg, err := loadConfig(args)
		if err == nil {
			cli.InitColors()
			err = cli.HandleVault(ctx, os.Stdout, cfg, args)
		}
		exitOnError("vault "+args.Subcommand, err, args.JSON)

	case cli.CmdConfig:
		cli.InitColors()
		exitOnError("config "+args.Subcommand, cli.HandleConfig(os.Stdout, args), args.JSON)

	case cli.CmdVersion:
		if args.JSON {
			_ = cli.NewJSONResponse("version", cli.VersionData{
				Version:   Version,
				GitCommit: GitCommit,
				BuildDate: BuildDate,
			}).Write(os.Stdout)
			return
		}
		cli.PrintVersion(os.Stdout)

	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)

	default:
		fmt.Fprintln(os.Stderr, cli.UnknownCommandMessage(args.Unknown))
		os.Exit(cli.ExitUsageError)
	}
}

// exitOnError reports err and exits with its mapped code.
func exitOnError(command string, err error, jsonMode bool) {
	if err == nil {
		return
	}
	w := io.Writer(os.Stderr)
	if jsonMode {
		w = os.Stdout
	}
	cli.DisplayError(w, command, err, jsonMode)
	os.Exit(cli.GetExitCode(err))
}

// loadConfig loads the configuration and applies command-line overrides.
// A broken config file falls back to defaults with a warning.
func loadConfig(args cli.Args) (*config.Config, error) {
	cfg, err := cli.LoadConfig(args.ConfigPath)
	if err != nil {
		if cfg == nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	if args.BackendURL != "" {
		cfg.Backend.URL = args.BackendURL
	}
	if args.Honeypot {
		cfg.Session.StartInHoneypot = true
	}
	if args.NoVoice {
		cfg.Speech.Enabled = false
	}
	if args.Plain {
		cfg.UI.Plain = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	config.SetGlobal(cfg)
	return cfg, nil
}

// =============================================================================
// CHAT SURFACES
// =============================================================================

// run wires the session and starts the TUI or the line REPL.
func run(cmd cli.Command, args cli.Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logFile := setupLogging(cfg)
	if logFile != nil {
		defer logFile.Close()
	}

	client := agent.NewClient(&agent.ClientConfig{
		BaseURL:  cfg.Backend.URL,
		Endpoint: cfg.Backend.Endpoint,
		OnChunk: func(text string) {
			log.Printf("CHAT_CHUNK | bytes=%d", len(text))
		},
	})

	synth := speech.NewCommandSynthesizer(speechOptions(cfg))
	speaker := speech.NewCoordinator(synth)
	defer speaker.Stop()

	sessCfg := session.DefaultConfig()
	sessCfg.VoiceEnabled = cfg.Speech.Enabled
	sessCfg.RequestTimeout = cfg.RequestTimeout()
	if cfg.Session.StartInHoneypot {
		sessCfg.StartMode = model.ModeHoneypot
	}

	if cfg.Vault.Enabled {
		v, err := vault.Open(context.Background(), config.ExpandPath(cfg.Vault.Path))
		if err != nil {
			return &cli.CommandError{Command: "vault", Action: "open", Reason: "cannot open vault", Err: err}
		}
		defer v.Close()
		sessCfg.Sink = v
	}

	ctrl := session.NewController(client, speaker, sessCfg)
	log.Printf("SESSION_START | session=%s backend=%s mode=%s voice=%t speech=%q vault=%t",
		ctrl.SessionID(), client.URL(), sessCfg.StartMode, sessCfg.VoiceEnabled, synth.Program(), sessCfg.Sink != nil)
	defer func() {
		st := ctrl.GetStatus()
		log.Printf("SESSION_END | session=%s messages=%d intel=%d duration=%s",
			st.SessionID, st.Messages, st.IntelHits, session.FormatDuration(st.Duration))
	}()

	if w := watchConfig(args.ConfigPath, synth); w != nil {
		defer w.Close()
	}

	exportOpts := export.DefaultOptions()
	exportOpts.OutputDir = config.ExpandPath(cfg.Export.Dir)
	exportOpts.OpenAfterExport = cfg.Export.OpenAfter

	if cmd == cli.CmdChat || cfg.UI.Plain || !cli.Interactive() {
		return runREPL(ctrl, cfg, exportOpts)
	}
	return runTUI(ctrl, cfg, exportOpts)
}

func runTUI(ctrl *session.Controller, cfg *config.Config, exportOpts *export.Options) error {
	theme := styles.NewTheme(cfg.UI.Theme)
	m := chat.New(theme, ctrl, chat.Options{
		ExportFormat: cfg.Export.Format,
		Export:       exportOpts,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	ctrl.Subscribe(chat.Forward(p))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running scamtrap: %w", err)
	}
	return nil
}

func runREPL(ctrl *session.Controller, cfg *config.Config, exportOpts *export.Options) error {
	cli.InitColors()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	repl := cli.NewREPL(ctrl, cli.REPLOptions{
		ExportFormat: cfg.Export.Format,
		Export:       exportOpts,
		Markdown:     cli.IsStdoutTTY(),
	})
	if err := repl.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// =============================================================================
// AMBIENT WIRING
// =============================================================================

// setupLogging routes the standard logger to the configured log file, or
// discards it. The terminal belongs to the UI either way.
func setupLogging(cfg *config.Config) *os.File {
	if !cfg.Log.Enabled {
		log.SetOutput(io.Discard)
		return nil
	}

	path := config.ExpandPath(cfg.Log.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create log directory: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := tea.LogToFile(path, "scamtrap")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}
	return f
}

func speechOptions(cfg *config.Config) speech.Options {
	return speech.Options{
		Command: cfg.Speech.Command,
		Voice:   cfg.Speech.Voice,
		Rate:    cfg.Speech.Rate,
	}
}

// watchConfig applies speech settings from config edits while a session
// runs. Other settings take effect on the next start.
func watchConfig(configPath string, synth *speech.CommandSynthesizer) *config.Watcher {
	path, err := cli.ResolveConfigPath(configPath)
	if err != nil {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	w, err := config.Watch(path, 0, func(cfg *config.Config) {
		synth.SetOptions(speechOptions(cfg))
		log.Printf("CONFIG_RELOADED | path=%s speech=%q rate=%d", path, synth.Program(), cfg.Speech.Rate)
	})
	if err != nil {
		log.Printf("CONFIG_WATCH_FAILED | path=%s error=%v", path, err)
		return nil
	}
	return w
}
