// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"log"
	"sync"
)

// =============================================================================
// SYNTHESIZER INTERFACE
// =============================================================================

// Synthesizer is the platform speech-output capability.
type Synthesizer interface {
	// Available reports whether speech output can be produced at all.
	Available() bool

	// Speak plays text and blocks until playback ends naturally (nil error)
	// or ctx is cancelled.
	Speak(ctx context.Context, text string) error
}

// =============================================================================
// COORDINATOR
// =============================================================================

// utterance is the single tracked playback.
type utterance struct {
	id     uint64
	cancel context.CancelFunc
}

// Coordinator enforces single-flight playback on top of a Synthesizer.
// Each Coordinator owns its own tracked utterance; it is safe for
// concurrent use.
type Coordinator struct {
	synth Synthesizer

	// cbMu is held while a callback runs and by Speak/Stop, so once
	// Stop returns no callback of the cancelled utterance can still fire.
	cbMu sync.Mutex

	mu      sync.Mutex
	current *utterance
	nextID  uint64
	warned  bool
}

// NewCoordinator creates a coordinator. synth may be nil.
func NewCoordinator(synth Synthesizer) *Coordinator {
	return &Coordinator{synth: synth}
}

// Available reports whether the underlying capability can speak.
func (c *Coordinator) Available() bool {
	return c.synth != nil && c.synth.Available()
}

// Speak cancels any utterance in flight, then starts playback of text.
// onStart runs when playback begins and onEnd when it completes naturally;
// neither runs for an utterance that was cancelled first. Both callbacks run
// on the playback goroutine, may be nil, and must not call back into c.
func (c *Coordinator) Speak(text string, onStart, onEnd func()) {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	if !c.Available() {
		if !c.warned {
			c.warned = true
			log.Printf("SPEECH_UNAVAILABLE | speech output not supported, replies will not be spoken")
		}
		return
	}

	c.nextID++
	ctx, cancel := context.WithCancel(context.Background())
	u := &utterance{id: c.nextID, cancel: cancel}
	c.current = u

	go c.play(ctx, u, text, onStart, onEnd)
}

// Stop cancels the tracked utterance, if any. Idempotent.
func (c *Coordinator) Stop() {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Speaking reports whether an utterance is currently tracked.
func (c *Coordinator) Speaking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

func (c *Coordinator) stopLocked() {
	if c.current != nil {
		c.current.cancel()
		c.current = nil
	}
}

// isCurrent reports whether u is still the tracked utterance.
func (c *Coordinator) isCurrent(u *utterance) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current == u
}

func (c *Coordinator) play(ctx context.Context, u *utterance, text string, onStart, onEnd func()) {
	defer u.cancel()

	if !c.deliver(u, onStart) {
		return
	}

	err := c.synth.Speak(ctx, text)
	if err != nil && ctx.Err() == nil {
		log.Printf("SPEECH_ERROR | utterance=%d error=%v", u.id, err)
	}

	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	c.mu.Lock()
	natural := err == nil && ctx.Err() == nil && c.current == u
	if c.current == u {
		c.current = nil
	}
	c.mu.Unlock()

	if natural && onEnd != nil {
		onEnd()
	}
}

// deliver runs fn if u is still tracked. It returns false when u was
// cancelled.
func (c *Coordinator) deliver(u *utterance, fn func()) bool {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()
	if !c.isCurrent(u) {
		return false
	}
	if fn != nil {
		fn()
	}
	return true
}
