// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/scamtrap-tui/internal/export"
	"github.com/jeranaias/scamtrap-tui/internal/model"
	"github.com/jeranaias/scamtrap-tui/internal/session"
	"github.com/jeranaias/scamtrap-tui/internal/ui/styles"
)

// Controller is the session surface the chat view drives.
type Controller interface {
	Send(ctx context.Context, text string) bool
	ToggleHoneypot() model.Mode
	SetVoiceEnabled(enabled bool)
	ReplayLast() bool
	State() session.State
	SessionID() string
	StartTime() time.Time
}

// Options configures the chat view.
type Options struct {
	// ExportFormat is the transcript format for ctrl+e ("md" or "json").
	ExportFormat string

	// Export controls where and how transcripts are written.
	Export *export.Options

	// Clipboard writes text to the system clipboard (default: atotto/clipboard).
	Clipboard func(string) error
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	ctrl  Controller
	state session.State

	// Styling
	theme    *styles.Theme
	renderer *glamour.TermRenderer

	// Dimensions
	width  int
	height int
	ready  bool

	// Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keys     KeyMap
	spinning bool

	// Transient status line
	status    string
	statusErr bool

	exportFormat string
	exportOpts   *export.Options
	copyFn       func(string) error

	// ctx is cancelled on quit so an in-flight request is abandoned.
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a chat model bound to ctrl.
func New(theme *styles.Theme, ctrl Controller, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	// ASCII-compatible animation
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	if opts.Export == nil {
		opts.Export = export.DefaultOptions()
	}
	if opts.ExportFormat == "" {
		opts.ExportFormat = "md"
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		ctrl:         ctrl,
		state:        ctrl.State(),
		theme:        theme,
		viewport:     vp,
		input:        ti,
		spinner:      sp,
		keys:         DefaultKeyMap(),
		exportFormat: opts.ExportFormat,
		exportOpts:   opts.Export,
		copyFn:       opts.Clipboard,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateMsg:
		return m.handleState(msg.State)

	case spinner.TickMsg:
		if !m.state.Pending {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sendResultMsg:
		if !msg.Accepted {
			if m.input.Value() == "" {
				m.input.SetValue(msg.Text)
			}
			m.setStatus("Request already in flight", true)
		}
		return m, nil

	case replayResultMsg:
		if !msg.OK {
			m.setStatus("No reply to replay", true)
		} else {
			m.setStatus("Replaying last reply", false)
		}
		return m, nil

	case copyResultMsg:
		switch {
		case msg.Err != nil:
			m.setStatus("Copy failed: "+msg.Err.Error(), true)
		case msg.Chars == 0:
			m.setStatus("No reply to copy", true)
		default:
			m.setStatus("Copied reply to clipboard", false)
		}
		return m, nil

	case exportResultMsg:
		if msg.Err != nil {
			m.setStatus("Export failed: "+msg.Err.Error(), true)
		} else {
			m.setStatus("Exported to "+msg.Path, false)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.render()
}

// =============================================================================
// HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.ready = true

	vw, vh := m.transcriptSize()
	m.viewport.Width = vw
	m.viewport.Height = vh
	m.input.Width = max(10, m.width-8)

	m.renderer = newRenderer(m.theme, vw-4)
	m.refreshTranscript()
	return m, nil
}

func (m Model) handleState(s session.State) (tea.Model, tea.Cmd) {
	m.state = s
	m.refreshTranscript()

	if s.Pending && !m.spinning {
		m.spinning = true
		return m, m.spinner.Tick
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.ToggleHoneypot):
		ctrl := m.ctrl
		return m, func() tea.Msg {
			ctrl.ToggleHoneypot()
			return nil
		}

	case key.Matches(msg, m.keys.ToggleVoice):
		ctrl, enabled := m.ctrl, !m.state.VoiceEnabled
		return m, func() tea.Msg {
			ctrl.SetVoiceEnabled(enabled)
			return nil
		}

	case key.Matches(msg, m.keys.Replay):
		ctrl := m.ctrl
		return m, func() tea.Msg {
			return replayResultMsg{OK: ctrl.ReplayLast()}
		}

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit clears the input and dispatches the text. Blank input and input
// typed while a request is pending stay in the box.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	if m.state.Pending {
		m.setStatus("Awaiting response", true)
		return m, nil
	}

	m.input.Reset()
	m.status = ""

	ctrl, ctx := m.ctrl, m.ctx
	return m, func() tea.Msg {
		return sendResultMsg{Text: text, Accepted: ctrl.Send(ctx, text)}
	}
}

func (m Model) copyCmd() tea.Cmd {
	msg, ok := model.LastAssistant(m.state.Messages)
	copyFn := m.copyFn
	return func() tea.Msg {
		if !ok || msg.Content == "" {
			return copyResultMsg{}
		}
		if err := copyFn(msg.Content); err != nil {
			return copyResultMsg{Err: err}
		}
		return copyResultMsg{Chars: len(msg.Content)}
	}
}

func (m Model) exportCmd() tea.Cmd {
	t := &export.Transcript{
		SessionID:    m.ctrl.SessionID(),
		StartedAt:    m.ctrl.StartTime(),
		Mode:         m.state.Mode,
		Messages:     m.state.Messages,
		Intelligence: m.state.LastIntelligence,
	}
	format, opts := m.exportFormat, m.exportOpts
	return func() tea.Msg {
		path, err := export.ToFile(t, format, opts)
		return exportResultMsg{Path: path, Err: err}
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the last state received from the controller.
func (m Model) State() session.State {
	return m.state
}

// InputValue returns the current input text.
func (m Model) InputValue() string {
	return m.input.Value()
}

// Status returns the transient status line text.
func (m Model) Status() string {
	return m.status
}

// newRenderer builds a glamour renderer matching the theme. It returns nil
// when glamour cannot be initialized; messages then render as plain text.
func newRenderer(theme *styles.Theme, width int) *glamour.TermRenderer {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(20, width)),
	)
	if err != nil {
		return nil
	}
	return r
}
