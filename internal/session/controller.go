// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/scamtrap-tui/internal/agent"
	"github.com/jeranaias/scamtrap-tui/internal/model"
	"github.com/jeranaias/scamtrap-tui/internal/util"
)

// FailureText is the content of the synthetic assistant message appended
// when a round trip fails for any reason.
const FailureText = "CRITICAL: Response generation failed. Check system logs."

// =============================================================================
// COLLABORATORS
// =============================================================================

// Agent sends one chat request and returns the decoded reply.
type Agent interface {
	Chat(ctx context.Context, req agent.ChatRequest) (*agent.Reply, error)
}

// Speaker plays replies aloud. Implementations must pre-empt any utterance
// in flight on Speak, and Stop must be idempotent.
type Speaker interface {
	Speak(text string, onStart, onEnd func())
	Stop()
}

// IntelligenceSink receives every snapshot a reply carries.
type IntelligenceSink interface {
	RecordIntelligence(ctx context.Context, sessionID string, snap *model.IntelligenceSnapshot) error
}

// nopSpeaker is used when no speaker is configured.
type nopSpeaker struct{}

func (nopSpeaker) Speak(string, func(), func()) {}
func (nopSpeaker) Stop()                         {}

// =============================================================================
// CONFIG
// =============================================================================

// Config holds configuration for a Controller.
type Config struct {
	// StartMode is the initial persona (default: assistant)
	StartMode model.Mode

	// VoiceEnabled gates whether replies are spoken (default: true)
	VoiceEnabled bool

	// RequestTimeout bounds each round trip. Zero means no timeout.
	RequestTimeout time.Duration

	// Sink optionally records every new intelligence snapshot.
	Sink IntelligenceSink
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		StartMode:    model.ModeAssistant,
		VoiceEnabled: true,
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the session state machine. All methods are safe for
// concurrent use; Send blocks for the whole round trip and is meant to be
// called off the UI goroutine.
type Controller struct {
	mu    sync.Mutex
	state State

	agent   Agent
	speaker Speaker
	sink    IntelligenceSink
	timeout time.Duration

	sessionID string
	startTime time.Time

	subMu       sync.Mutex
	subscribers []func(State)
}

// NewController creates a controller. speaker may be nil.
func NewController(a Agent, speaker Speaker, cfg Config) *Controller {
	if speaker == nil {
		speaker = nopSpeaker{}
	}
	return &Controller{
		state: State{
			Mode:         cfg.StartMode,
			VoiceEnabled: cfg.VoiceEnabled,
		},
		agent:     a,
		speaker:   speaker,
		sink:      cfg.Sink,
		timeout:   cfg.RequestTimeout,
		sessionID: "sess_" + uuid.NewString(),
		startTime: time.Now(),
	}
}

// SessionID returns the session identifier.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// StartTime returns when the session started.
func (c *Controller) StartTime() time.Time {
	return c.startTime
}

// State returns a deep copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Transcript returns a copy of the message history.
func (c *Controller) Transcript() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.ChatMessage(nil), c.state.Messages...)
}

// Subscribe registers fn to receive the state after every change. fn runs
// on the goroutine that made the change and must not call back into the
// controller.
func (c *Controller) Subscribe(fn func(State)) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// notify snapshots and delivers under subMu, so subscribers see states in
// the order they were taken and never an older one after a newer one.
func (c *Controller) notify() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	state := c.State()
	for _, fn := range c.subscribers {
		fn(state)
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Send appends text as a user message and performs one round trip. It
// returns false without touching any state when text is blank or another
// request is in flight. Failures never escape: they become a single
// FailureText assistant message.
func (c *Controller) Send(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	c.mu.Lock()
	if c.state.Pending {
		c.mu.Unlock()
		log.Printf("CHAT_REJECTED | session=%s reason=pending", c.sessionID)
		return false
	}
	c.speaker.Stop()
	c.state.Messages = append(c.state.Messages, model.NewUserMessage(text))
	c.state.Pending = true
	req := BuildRequest(c.state)
	c.mu.Unlock()
	c.notify()

	sentAsHoneypot := SentAsHoneypot(req)
	log.Printf("CHAT_REQUEST | session=%s honeypot=%t messages=%d", c.sessionID, sentAsHoneypot, len(req.Messages))

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := c.agent.Chat(ctx, req)
	if err == nil && reply == nil {
		err = errors.New("agent returned no reply")
	}

	if err != nil {
		log.Printf("CHAT_FAILED | session=%s kind=%s duration=%s error=%v",
			c.sessionID, agent.KindOf(err), time.Since(start).Round(time.Millisecond), err)
		c.fail()
	} else {
		log.Printf("CHAT_REPLY | session=%s structured=%t intel=%t duration=%s",
			c.sessionID, reply.Structured, reply.Intelligence != nil, time.Since(start).Round(time.Millisecond))
		c.complete(reply, sentAsHoneypot)
	}
	c.notify()
	return true
}

// fail appends the diagnostic message and clears pending. Nothing else
// changes and nothing is spoken.
func (c *Controller) fail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Messages = append(c.state.Messages, model.NewAssistantMessage(FailureText))
	c.state.Pending = false
}

// complete applies a successful reply.
func (c *Controller) complete(reply *agent.Reply, sentAsHoneypot bool) {
	c.mu.Lock()

	prev := c.state.Mode
	c.state.Mode = Escalate(prev, sentAsHoneypot, reply.Structured)
	if c.state.Mode != prev {
		log.Printf("MODE_ESCALATED | session=%s from=%s to=%s", c.sessionID, prev, c.state.Mode)
	}

	var snap *model.IntelligenceSnapshot
	if reply.Intelligence != nil {
		snap = reply.Intelligence.Clone()
		c.state.LastIntelligence = snap
	}

	c.state.Messages = append(c.state.Messages, model.NewAssistantMessage(reply.Text))
	c.state.Pending = false

	if c.state.VoiceEnabled && reply.Text != "" {
		c.speak(reply.Text)
	}
	c.mu.Unlock()

	if snap != nil && c.sink != nil {
		if err := c.sink.RecordIntelligence(context.Background(), c.sessionID, snap.Clone()); err != nil {
			log.Printf("INTEL_RECORD_FAILED | session=%s error=%v", c.sessionID, err)
		}
	}
}

// ToggleHoneypot flips the mode without touching history or intelligence
// and returns the new mode.
func (c *Controller) ToggleHoneypot() model.Mode {
	c.mu.Lock()
	c.state.Mode = c.state.Mode.Toggle()
	mode := c.state.Mode
	c.mu.Unlock()

	log.Printf("MODE_TOGGLED | session=%s mode=%s", c.sessionID, mode)
	c.notify()
	return mode
}

// SetVoiceEnabled sets whether replies are spoken. Disabling cancels any
// playback immediately.
func (c *Controller) SetVoiceEnabled(enabled bool) {
	c.mu.Lock()
	c.state.VoiceEnabled = enabled
	if !enabled {
		c.speaker.Stop()
	}
	c.mu.Unlock()
	c.notify()
}

// ReplayLast re-speaks the most recent assistant message. It returns false
// when there is none.
func (c *Controller) ReplayLast() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg, ok := model.LastAssistant(c.state.Messages)
	if !ok {
		return false
	}
	c.speaker.Stop()
	c.speak(msg.Content)
	return true
}

// speak must be called with c.mu held. The callbacks only log, so they
// never re-enter the controller.
func (c *Controller) speak(text string) {
	id := c.sessionID
	c.speaker.Speak(text,
		func() { log.Printf("SPEECH_START | session=%s chars=%d", id, len(text)) },
		func() { log.Printf("SPEECH_END | session=%s", id) },
	)
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status summarizes the session for status lines.
type Status struct {
	SessionID string
	StartTime time.Time
	Duration  time.Duration
	Messages  int
	Mode      model.Mode
	Pending   bool
	IntelHits int
}

// GetStatus returns the current session status.
func (c *Controller) GetStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Status{
		SessionID: c.sessionID,
		StartTime: c.startTime,
		Duration:  time.Since(c.startTime),
		Messages:  len(c.state.Messages),
		Mode:      c.state.Mode,
		Pending:   c.state.Pending,
		IntelHits: c.state.LastIntelligence.Count(),
	}
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return util.IntToString(int(d.Seconds())) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return util.IntToString(mins) + "m"
	}
	return util.IntToString(mins) + "m " + util.IntToString(secs) + "s"
}
