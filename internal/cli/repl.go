// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/jeranaias/scamtrap-tui/internal/config"
	"github.com/jeranaias/scamtrap-tui/internal/export"
	"github.com/jeranaias/scamtrap-tui/internal/model"
	"github.com/jeranaias/scamtrap-tui/internal/session"
)

// Controller is the session surface the REPL drives.
type Controller interface {
	Send(ctx context.Context, text string) bool
	ToggleHoneypot() model.Mode
	SetVoiceEnabled(enabled bool)
	ReplayLast() bool
	State() session.State
	SessionID() string
	StartTime() time.Time
}

// REPLOptions configures a REPL.
type REPLOptions struct {
	// In, when set, is read line by line instead of the interactive editor.
	In io.Reader

	// Out receives all output (default: os.Stdout).
	Out io.Writer

	// HistoryFile persists input history (default: ~/.scamtrap/chat_history).
	HistoryFile string

	// ExportFormat is the default /export format ("md" or "json").
	ExportFormat string

	// Export controls where transcripts are written.
	Export *export.Options

	// Clipboard writes text to the system clipboard (default: atotto/clipboard).
	Clipboard func(string) error

	// Markdown renders replies with glamour.
	Markdown bool
}

// lineReader is the input side of the REPL.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// =============================================================================
// REPL
// =============================================================================

// REPL is the line-oriented chat surface.
type REPL struct {
	ctrl     Controller
	opts     REPLOptions
	out      io.Writer
	renderer *glamour.TermRenderer
}

// NewREPL creates a REPL bound to ctrl.
func NewREPL(ctrl Controller, opts REPLOptions) *REPL {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ExportFormat == "" {
		opts.ExportFormat = "md"
	}
	if opts.Export == nil {
		opts.Export = export.DefaultOptions()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	r := &REPL{ctrl: ctrl, opts: opts, out: opts.Out}
	if opts.Markdown {
		r.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(GetTerminalWidth()-4),
		)
	}
	return r
}

// Run reads and executes lines until /quit, EOF or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	reader := r.newReader()
	defer reader.Close()

	r.printWelcome()

	for ctx.Err() == nil {
		line, err := reader.Prompt(promptFor(r.ctrl.State().Mode))
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(r.out)
			return nil
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}

		if r.Execute(ctx, line) {
			return nil
		}
	}
	return ctx.Err()
}

// Execute runs one input line and reports whether the REPL should exit.
func (r *REPL) Execute(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, "/") {
		return r.command(ctx, line)
	}
	r.send(ctx, line)
	return false
}

func (r *REPL) send(ctx context.Context, text string) {
	before := r.ctrl.State()

	fmt.Fprintln(r.out, DimStyle.Render("..."))
	if !r.ctrl.Send(ctx, text) {
		fmt.Fprintln(r.out, ErrorStyle.Render("Request already in flight"))
		return
	}
	after := r.ctrl.State()

	if msg, ok := model.LastAssistant(after.Messages); ok {
		r.printReply(msg)
	}

	if after.Mode != before.Mode && after.Mode.IsHoneypot() {
		fmt.Fprintln(r.out, WarningStyle.Render("[!] Scam signature detected. "+after.Mode.EngineLabel()+" engaged."))
	}
	if after.Mode.IsHoneypot() && after.LastIntelligence != nil &&
		!reflect.DeepEqual(after.LastIntelligence, before.LastIntelligence) {
		fmt.Fprintln(r.out, DimStyle.Render(fmt.Sprintf("Intel: %d identifiers (/intel to view)", after.LastIntelligence.Count())))
	}
}

func (r *REPL) printReply(msg model.ChatMessage) {
	label := AgentStyle.Render(msg.Role.DisplayName()) + " " + DimStyle.Render(msg.Timestamp.Format("15:04:05"))
	fmt.Fprintln(r.out, label)

	if msg.Content == session.FailureText {
		fmt.Fprintln(r.out, ErrorStyle.Render(msg.Content))
		return
	}
	if r.renderer != nil {
		if out, err := r.renderer.Render(msg.Content); err == nil {
			fmt.Fprint(r.out, out)
			return
		}
	}
	fmt.Fprintln(r.out, msg.Content)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (r *REPL) command(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	name, rest := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "/quit", "/exit", "/q":
		return true

	case "/help", "/h", "/?":
		r.printHelp()

	case "/honeypot", "/hp":
		mode := r.ctrl.ToggleHoneypot()
		fmt.Fprintf(r.out, "Engine: %s  (/honeypot to %s)\n",
			mode.EngineLabel(), strings.ToLower(mode.ToggleLabel()))

	case "/voice":
		enabled := !r.ctrl.State().VoiceEnabled
		if len(rest) > 0 {
			v, err := ParseBoolString(rest[0])
			if err != nil {
				fmt.Fprintln(r.out, ErrorStyle.Render("Usage: /voice on|off"))
				return false
			}
			enabled = v
		}
		r.ctrl.SetVoiceEnabled(enabled)
		if enabled {
			fmt.Fprintln(r.out, "Voice: on")
		} else {
			fmt.Fprintln(r.out, "Voice: off")
		}

	case "/replay":
		if !r.ctrl.ReplayLast() {
			fmt.Fprintln(r.out, DimStyle.Render("No reply to replay"))
		}

	case "/intel":
		r.printIntel()

	case "/status":
		r.printStatus()

	case "/export":
		format := r.opts.ExportFormat
		if len(rest) > 0 {
			format = rest[0]
		}
		r.export(format)

	case "/copy":
		r.copyLast()

	default:
		fmt.Fprintf(r.out, "%s %s (try /help)\n", ErrorStyle.Render("Unknown command:"), name)
	}
	return false
}

func (r *REPL) printIntel() {
	state := r.ctrl.State()
	if !state.Mode.IsHoneypot() {
		fmt.Fprintln(r.out, DimStyle.Render("Honeypot Inactive. Extraction Standby."))
		return
	}

	snap := state.LastIntelligence
	if snap == nil {
		snap = &model.IntelligenceSnapshot{}
	}
	for _, cat := range snap.Categories() {
		header := fmt.Sprintf("%s [%d]", cat.Label, len(cat.Values))
		fmt.Fprintln(r.out, RenderLabel(header))
		if len(cat.Values) == 0 {
			fmt.Fprintln(r.out, DimStyle.Render("  none captured"))
			continue
		}
		for _, v := range cat.Values {
			fmt.Fprintln(r.out, "  "+IntelStyle.Render("> "+v))
		}
	}
}

func (r *REPL) printStatus() {
	state := r.ctrl.State()
	voice := "off"
	if state.VoiceEnabled {
		voice = "on"
	}
	fmt.Fprintf(r.out, "%s %s\n", RenderLabel("Session"), r.ctrl.SessionID())
	fmt.Fprintf(r.out, "%s %s\n", RenderLabel("Uptime"), session.FormatDuration(time.Since(r.ctrl.StartTime())))
	fmt.Fprintf(r.out, "%s %s\n", RenderLabel("Engine"), state.Mode.EngineLabel())
	fmt.Fprintf(r.out, "%s %s\n", RenderLabel("Voice"), voice)
	fmt.Fprintf(r.out, "%s %d\n", RenderLabel("Messages"), len(state.Messages))
	fmt.Fprintf(r.out, "%s %d\n", RenderLabel("Identifiers"), state.LastIntelligence.Count())
}

func (r *REPL) export(format string) {
	state := r.ctrl.State()
	t := &export.Transcript{
		SessionID:    r.ctrl.SessionID(),
		StartedAt:    r.ctrl.StartTime(),
		Mode:         state.Mode,
		Messages:     state.Messages,
		Intelligence: state.LastIntelligence,
	}
	path, err := export.ToFile(t, format, r.opts.Export)
	if err != nil {
		fmt.Fprintln(r.out, ErrorStyle.Render("Export failed: ")+err.Error())
		return
	}
	fmt.Fprintln(r.out, SuccessStyle.Render("[OK]")+" Exported to "+path)
}

func (r *REPL) copyLast() {
	msg, ok := model.LastAssistant(r.ctrl.State().Messages)
	if !ok || msg.Content == "" {
		fmt.Fprintln(r.out, DimStyle.Render("No reply to copy"))
		return
	}
	if err := r.opts.Clipboard(msg.Content); err != nil {
		fmt.Fprintln(r.out, ErrorStyle.Render("Copy failed: ")+err.Error())
		return
	}
	fmt.Fprintln(r.out, SuccessStyle.Render("[OK]")+" Copied reply ("+formatSize(len(msg.Content))+")")
}

func (r *REPL) printWelcome() {
	state := r.ctrl.State()
	fmt.Fprintln(r.out, TitleStyle.Render("SCAMTRAP")+"  "+state.Mode.EngineLabel())
	fmt.Fprintln(r.out, DimStyle.Render("Type a message, /help for commands, /quit to exit."))
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, `Commands:
  /honeypot          Toggle the honeypot persona
  /voice [on|off]    Toggle or set speech output
  /replay            Speak the last reply again
  /intel             Show the last intelligence snapshot
  /status            Session summary
  /export [md|json]  Export the transcript
  /copy              Copy the last reply
  /quit              Exit`)
}

// =============================================================================
// INPUT
// =============================================================================

func (r *REPL) newReader() lineReader {
	if r.opts.In != nil {
		return &scanReader{scanner: bufio.NewScanner(r.opts.In)}
	}
	return newLinerReader(r.opts.HistoryFile)
}

// scanReader reads lines from a non-interactive source.
type scanReader struct {
	scanner *bufio.Scanner
}

func (s *scanReader) Prompt(string) (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *scanReader) Close() error { return nil }

// linerReader provides line editing and persistent history.
type linerReader struct {
	line        *liner.State
	historyFile string
}

func newLinerReader(historyFile string) *linerReader {
	if historyFile == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		historyFile = filepath.Join(dir, "chat_history")
	}

	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	if f, err := os.Open(historyFile); err == nil {
		l.ReadHistory(f)
		f.Close()
	}
	return &linerReader{line: l, historyFile: historyFile}
}

func (l *linerReader) Prompt(prompt string) (string, error) {
	input, err := l.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		l.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with 0600 permissions and restores the terminal.
func (l *linerReader) Close() error {
	if err := os.MkdirAll(filepath.Dir(l.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(l.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			l.line.WriteHistory(f)
			f.Close()
		}
	}
	return l.line.Close()
}
